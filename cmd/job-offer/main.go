package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/fbts/job-offer/internal/config"
	"github.com/fbts/job-offer/internal/offer"
	"github.com/fbts/job-offer/internal/structure"
	"github.com/fbts/job-offer/pkg/constants"
	"github.com/fbts/job-offer/pkg/output"
	"github.com/fbts/job-offer/pkg/validation"
	"go.uber.org/zap"
)

func main() {
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv, xlsx")
	outputFileFlag := flag.String("output-file", "", "workbook path for xlsx output")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	logger, err := config.NewLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	svc := offer.NewService(logger, structure.NewCatalog(conf.Structures))
	results, err := svc.PrepareAll(context.Background(), conf.Offers, offer.Options{})
	if err != nil {
		logger.Fatal("failed to prepare job offers",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	switch outputFormat {
	case constants.OutputFormatPretty:
		err = output.PrettyFormat(os.Stdout, results)
	case constants.OutputFormatCSV:
		err = output.CsvFormat(os.Stdout, results)
	case constants.OutputFormatXLSX:
		file := conf.Output.File
		if *outputFileFlag != "" {
			file = *outputFileFlag
		}
		if file == "" {
			file = constants.DefaultXLSXFile
		}
		err = output.SaveXLSX(file, results)
		if err == nil {
			logger.Info("wrote job offer workbook",
				zap.String("op", "main"),
				zap.String("file", file),
				zap.Int("offers", len(results)),
			)
		}
	}
	if err != nil {
		logger.Fatal("failed to write output",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}
