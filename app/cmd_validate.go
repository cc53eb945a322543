package app

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/JiscSD/ed318-validator/source"
	"github.com/JiscSD/ed318-validator/zone"
	"github.com/JiscSD/ed318-validator/zone/schema"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type validateOptions struct {
	file            string
	mode            string
	collectAll      bool
	concurrency     int
	schemaCheck     bool
	checkLayerOrder bool
	output          string
	format          string
}

func NewCmdValidate(out, stderr io.Writer, logger logrus.FieldLogger, config *Config) *cobra.Command {
	opts := &validateOptions{}
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate ED-318 GeoJSON documents",
		Long: `Validate an ED-318 UAS Geographical Zone document.

The document can be a local path, a file://, s3:// or http(s):// URL. Names
ending in .gz or .zst are decompressed. The normalized document is printed on
success. Otherwise every issue is printed and the command fails.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.applyConfig(cmd, config)
			return doValidate(context.Background(), out, stderr, logger, config, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Document location")
	cmd.Flags().StringVar(&opts.mode, "mode", "", "Validation mode (strict, coercive)")
	cmd.Flags().BoolVar(&opts.collectAll, "collect-all", false, "Report every failing feature")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 0, "Number of features validated in parallel")
	cmd.Flags().BoolVar(&opts.schemaCheck, "schema-check", false, "Run the JSON Schema pre-check")
	cmd.Flags().BoolVar(&opts.checkLayerOrder, "check-layer-order", false, "Reject inverted vertical layers")
	cmd.Flags().StringVarP(&opts.output, "output", "o", outputJSON, "Document output (none, json, yaml)")
	cmd.Flags().StringVar(&opts.format, "format", formatText, "Issue format (text, logfmt)")

	return cmd
}

// applyConfig fills the options that were not given on the command line.
func (o *validateOptions) applyConfig(cmd *cobra.Command, config *Config) {
	flags := cmd.Flags()
	if !flags.Changed("mode") {
		o.mode = config.Validation.Mode
	}
	if !flags.Changed("collect-all") {
		o.collectAll = config.Validation.CollectAll
	}
	if !flags.Changed("concurrency") {
		o.concurrency = config.Validation.Concurrency
	}
	if !flags.Changed("schema-check") {
		o.schemaCheck = config.Validation.SchemaCheck
	}
	if !flags.Changed("check-layer-order") {
		o.checkLayerOrder = config.Validation.CheckLayerOrder
	}
}

func doValidate(ctx context.Context, out, stderr io.Writer, logger logrus.FieldLogger, config *Config, opts *validateOptions) error {
	if opts.file == "" {
		return errors.New("parameter empty: --file")
	}

	validator, err := newValidator(opts)
	if err != nil {
		return err
	}

	loader, err := newLoader(logger, config, opts.file)
	if err != nil {
		return err
	}
	data, err := loader.Load(ctx, opts.file)
	if err != nil {
		return err
	}

	logger = logger.WithFields(logrus.Fields{"file": opts.file, "mode": validator.Mode()})
	result, err := validator.Validate(ctx, data)
	var verr *zone.ValidationError
	if errors.As(err, &verr) {
		if err := writeIssues(stderr, opts.format, "error", verr.Errors); err != nil {
			return err
		}
		return errors.Errorf("%s is invalid: %d issue(s)", opts.file, len(verr.Errors))
	}
	if err != nil {
		return errors.Wrapf(err, "cannot validate %s", opts.file)
	}

	logger.WithField("warnings", len(result.Warnings)).Info("Document is valid")
	if err := writeIssues(stderr, opts.format, "warning", result.Warnings); err != nil {
		return err
	}
	if opts.output == outputNone {
		_, err := fmt.Fprintf(out, "%s is valid\n", opts.file)
		return err
	}
	return writeDocument(out, opts.output, result.Object)
}

func newValidator(opts *validateOptions) (*zone.Validator, error) {
	switch opts.output {
	case outputNone, outputJSON, outputYAML:
	default:
		return nil, errors.Errorf("unknown output %q", opts.output)
	}
	switch opts.format {
	case formatText, formatLogfmt:
	default:
		return nil, errors.Errorf("unknown format %q", opts.format)
	}

	var checker *schema.Checker
	if opts.schemaCheck {
		var err error
		if checker, err = schema.New(); err != nil {
			return nil, errors.Wrap(err, "cannot load schema")
		}
	}
	return zone.NewValidator(opts.mode,
		zone.WithCollectAll(opts.collectAll),
		zone.WithConcurrency(opts.concurrency),
		zone.WithLayerOrderCheck(opts.checkLayerOrder),
		zone.WithSchemaCheck(checker),
	)
}

// newLoader only opens an AWS session when the document lives in S3.
func newLoader(logger logrus.FieldLogger, config *Config, uri string) (*source.Loader, error) {
	opts := []source.Option{
		source.WithHTTPClient(source.NewHTTPClient(config.Source.HTTPTimeout)),
		source.WithRetry(source.ExponentialRetry(config.Source.RetryMaxElapsed)),
	}
	if strings.HasPrefix(uri, "s3://") {
		sess, err := awsSession(logger, config.AWS.S3Profile, config.AWS.S3Endpoint, config.AWS.S3Region)
		if err != nil {
			return nil, errors.Wrap(err, "cannot create AWS session")
		}
		opts = append(opts, source.WithObjectStorage(source.NewObjectStorage(sess)))
	}
	return source.New(logger, opts...), nil
}
