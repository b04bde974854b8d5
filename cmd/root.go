package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	mtp "github.com/modeltoolsprotocol/go-sdk"
	"github.com/rogersnm/contractme/internal/client"
	"github.com/rogersnm/contractme/internal/config"
	"github.com/rogersnm/contractme/internal/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	dataDir   string
	serverURL string
	cfg       *config.Config
	cl        *client.Client
	logger    *logrus.Logger
)

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".contractme")
	}
	return filepath.Join(home, ".contractme")
}

var rootCmd = &cobra.Command{
	Use:     "contractme",
	Short:   "Keep track of personal documents and their deadlines",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}

		var err error
		cfg, err = config.Load(dataDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if serverURL != "" {
			cfg.Server = serverURL
		}

		logger = logging.New(cfg.LogLevel, cfg.LogFormat)
		cl = client.New(cfg.Server)
		logger.WithFields(logrus.Fields{"server": cfg.Server, "data_dir": dataDir}).Debug("cli ready")
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", defaultDataDir(), "data directory path")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "server URL (overrides config)")

	mtpOpts := &mtp.DescribeOptions{
		Commands: map[string]*mtp.CommandAnnotation{
			"serve": {
				Examples: []mtp.Example{
					{Description: "Run the server on the configured address", Command: "contractme serve"},
					{Description: "Listen on all interfaces", Command: "contractme serve --listen 0.0.0.0:7420"},
				},
			},
			"doc add": {
				Examples: []mtp.Example{
					{Description: "Add a document", Command: "contractme doc add ./affitto.pdf --category Casa"},
					{Description: "Add a document with a linked deadline", Command: "contractme doc add ./polizza.pdf --category Finanze --deadline 2026-04-01 --deadline-desc \"Rinnovo\""},
				},
			},
			"doc list": {
				Stdout: &mtp.IODescriptor{
					ContentType: "text/plain",
					Description: "Table of documents with ID, name, category, size and upload time",
				},
			},
			"doc recent": {
				Stdout: &mtp.IODescriptor{
					ContentType: "text/plain",
					Description: "Table of the most recently uploaded documents, newest first",
				},
				Examples: []mtp.Example{
					{Description: "Documents uploaded in the last week", Command: "contractme doc recent --within-days 7"},
				},
			},
			"doc delete": {
				Examples: []mtp.Example{
					{Description: "Delete a document and its deadlines (interactive confirm)", Command: "contractme doc delete DOC-XXXXXXXX"},
					{Description: "Delete a document (skip confirm)", Command: "contractme doc delete DOC-XXXXXXXX --force"},
				},
			},
			"doc ask": {
				Stdout: &mtp.IODescriptor{
					ContentType: "text/plain",
					Description: "Assistant answer about the document",
				},
				Examples: []mtp.Example{
					{Description: "Ask about a document", Command: "contractme doc ask DOC-XXXXXXXX \"quando scade?\""},
				},
			},
			"deadline add": {
				Examples: []mtp.Example{
					{Description: "Add a standalone deadline", Command: "contractme deadline add \"Bollo auto\" --date 2026-01-31 --category Finanze"},
					{Description: "Link a deadline to a document", Command: "contractme deadline add \"Disdetta\" --date 2026-06-30 --category Casa --document DOC-XXXXXXXX"},
				},
			},
			"deadline import": {
				Examples: []mtp.Example{
					{Description: "Import a deadline from a markdown file with YAML frontmatter", Command: "contractme deadline import ./bollo.md"},
				},
			},
			"deadline list": {
				Stdout: &mtp.IODescriptor{
					ContentType: "text/plain",
					Description: "Table of deadlines sorted by date with days remaining and urgency",
				},
			},
			"deadline show": {
				Stdout: &mtp.IODescriptor{
					ContentType: "text/markdown",
					Description: "Deadline details, or the deadline as a frontmatter file with --raw",
				},
			},
			"deadline delete": {
				Examples: []mtp.Example{
					{Description: "Delete a deadline (skip confirm)", Command: "contractme deadline delete DL-XXXXXXXX --force"},
				},
			},
			"deadline upcoming": {
				Stdout: &mtp.IODescriptor{
					ContentType: "text/plain",
					Description: "Number of deadlines due within the window, past-due included",
				},
			},
			"calendar": {
				Stdout: &mtp.IODescriptor{
					ContentType: "text/plain",
					Description: "Monday-first month grid with per-day deadline counts",
				},
				Examples: []mtp.Example{
					{Description: "Current month", Command: "contractme calendar"},
					{Description: "A given month", Command: "contractme calendar 2026 3"},
				},
			},
			"dashboard": {
				Stdout: &mtp.IODescriptor{
					ContentType: "text/markdown",
					Description: "Summary of documents and upcoming deadlines",
				},
			},
		},
	}

	mtp.WithDescribe(rootCmd, mtpOpts)
}

func Execute() error {
	return rootCmd.Execute()
}

var errAborted = errors.New("aborted")

// confirmDelete asks before a destructive call unless --force is set.
func confirmDelete(cmd *cobra.Command, label string) error {
	if force, _ := cmd.Flags().GetBool("force"); force {
		return nil
	}
	var ok bool
	err := huh.NewConfirm().
		Title(fmt.Sprintf("Delete %s?", label)).
		Affirmative("Delete").
		Negative("Cancel").
		Value(&ok).
		Run()
	if err != nil {
		return fmt.Errorf("confirmation needed, rerun with --force: %w", err)
	}
	if !ok {
		return errAborted
	}
	return nil
}
