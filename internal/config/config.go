// Package config defines the data structures related to configuration and
// includes functions for loading, parsing and validating the config.
package config

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fbts/job-offer/internal/formula"
	"github.com/fbts/job-offer/internal/offer"
	"github.com/fbts/job-offer/internal/salary"
	"github.com/fbts/job-offer/internal/structure"
	"github.com/fbts/job-offer/pkg/configprocessor"
	"github.com/fbts/job-offer/pkg/constants"
	"github.com/fbts/job-offer/pkg/validation"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for job-offer.
type Configuration struct {
	Structures []structure.Structure `yaml:"structures" mapstructure:"structures" validate:"dive"`
	Offers     []offer.JobOffer      `yaml:"offers" mapstructure:"offers" validate:"dive"`
	Logging    LoggingConfig         `yaml:"logging,omitempty" mapstructure:"logging"`
	Output     OutputConfig          `yaml:"output,omitempty" mapstructure:"output"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" mapstructure:"level" envconfig:"LEVEL"`                 // debug, info, warn, error
	Format     string `yaml:"format,omitempty" mapstructure:"format" envconfig:"FORMAT"`              // json, console
	OutputFile string `yaml:"outputFile,omitempty" mapstructure:"outputFile" envconfig:"OUTPUT_FILE"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty" mapstructure:"format"` // pretty, csv, xlsx
	File   string `yaml:"file,omitempty" mapstructure:"file"`     // destination for xlsx output
}

var validate = validator.New()

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yml")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yml")
	v.AutomaticEnv()

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config, %w", err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	err := v.Unmarshal(&configuration, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		salary.AmountDecodeHook(),
		mapstructure.StringToTimeDurationHookFunc(),
	)))
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	configuration.applyDefaults()
	if err := configuration.Validate(); err != nil {
		return nil, err
	}
	return &configuration, nil
}

func (c *Configuration) applyDefaults() {
	if c.Output.Format == "" {
		c.Output.Format = constants.OutputFormatPretty
	}
	for i := range c.Offers {
		c.Offers[i].StructureMode = strings.ToLower(strings.TrimSpace(c.Offers[i].StructureMode))
	}
}

// Validate rejects configuration that cannot be processed at all.
func (c *Configuration) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
		return err
	}
	for _, o := range c.Offers {
		if err := validation.ValidateStructureMode(o.StructureMode); err != nil {
			return fmt.Errorf("job offer %s: %w", o.Title(), err)
		}
	}
	return nil
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings: duplicate abbreviations, formulas that cannot be parsed
// or refer to unknown components, dependency cycles, unknown structures and
// questionable offer metadata.
func (c *Configuration) ValidateConfiguration() []string {
	return c.ValidateConfigurationAt(time.Now())
}

// ValidateConfigurationAt is ValidateConfiguration with offer dates judged
// against today.
func (c *Configuration) ValidateConfigurationAt(today time.Time) []string {
	byName := make(map[string]*structure.Structure, len(c.Structures))
	for i := range c.Structures {
		byName[c.Structures[i].Name] = &c.Structures[i]
	}

	structures := make([]configprocessor.DocumentInfo, 0, len(c.Structures))
	for _, s := range c.Structures {
		structures = append(structures, configprocessor.DocumentInfo{
			Kind: "Salary structure",
			Name: s.Name,
			Rows: rowInfos(s.Earnings, s.Deductions),
		})
	}

	offers := make([]configprocessor.DocumentInfo, 0, len(c.Offers))
	metadata := validation.ConfigValidator{Today: today}
	for i := range c.Offers {
		o := &c.Offers[i]
		doc := configprocessor.DocumentInfo{Kind: "Job offer", Name: o.Title()}
		var rows [][]salary.Row
		mode, _ := offer.ParseMode(o.StructureMode)
		switch {
		case mode == offer.ModeOverwrite && o.SalaryStructure != "":
			doc.Structure = o.SalaryStructure
		case mode == offer.ModeAppend && o.SalaryStructure != "":
			doc.Structure = o.SalaryStructure
			doc.Rows = rowInfos(o.Earnings, o.Deductions)
			rows = append(rows, o.Earnings, o.Deductions)
		default:
			doc.Rows = rowInfos(o.Earnings, o.Deductions)
			rows = append(rows, o.Earnings, o.Deductions)
		}
		currency := o.Currency
		if s, ok := byName[doc.Structure]; ok {
			rows = append(rows, s.Earnings, s.Deductions)
			if s.Meta.Currency != "" {
				currency = s.Meta.Currency
			}
		}
		offers = append(offers, doc)
		metadata.Offers = append(metadata.Offers, validation.OfferConfig{
			Name:      o.Title(),
			OfferDate: o.OfferDate,
			Currency:  currency,
			Base:      o.Base.Float(),
			UsesBase:  usesBase(rows...),
		})
	}

	processor := configprocessor.NewProcessor()
	warnings := processor.ValidateDocuments(structures, offers)
	return append(warnings, metadata.ValidateAll()...)
}

// usesBase reports whether any parsable formula reads the base salary.
func usesBase(tables ...[]salary.Row) bool {
	for _, rows := range tables {
		for _, row := range rows {
			if !row.HasFormula() {
				continue
			}
			for _, ident := range formula.References(row.Formula) {
				if ident == constants.BaseIdentifier {
					return true
				}
			}
		}
	}
	return false
}

func rowInfos(tables ...[]salary.Row) []configprocessor.RowInfo {
	var infos []configprocessor.RowInfo
	for _, rows := range tables {
		for _, row := range rows {
			infos = append(infos, configprocessor.RowInfo{
				Label:   row.Label(),
				Abbr:    row.Abbr,
				Formula: row.Formula,
			})
		}
	}
	return infos
}
