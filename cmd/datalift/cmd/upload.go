package cmd

import (
	"bytes"
	"fmt"

	"github.com/datalift/datalift/internal/loader"
	"github.com/datalift/datalift/internal/table"
	"github.com/datalift/datalift/pkg/tracker"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// artifactFileName is the file name the serialized table is logged under.
const artifactFileName = "raw_data.csv"

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Load a data file and log it as a tracked artifact",
	Long: `Load a tabular data file and log it as a tracked artifact.

The file is read into an in-memory table, serialized to CSV, and uploaded to
the tracking server under a new run. Supported formats are Excel (.xlsx),
CSV (.csv), and JSON in split orientation (.json).

Examples:
  # Upload a CSV file
  datalift upload -f data.csv --name raw-data

  # Upload one sheet of an Excel workbook with a description
  datalift upload -f results.xlsx --sheet Sheet2 --name results \
    --type dataset --description "Q3 experiment results"`,
	RunE: runUpload,
}

var (
	uploadFile        string
	uploadSheet       string
	uploadName        string
	uploadType        string
	uploadDescription string
)

func init() {
	rootCmd.AddCommand(uploadCmd)
	uploadCmd.Flags().StringVarP(&uploadFile, "file", "f", "", "Path to the data file")
	uploadCmd.Flags().StringVar(&uploadSheet, "sheet", "", "Sheet name if the file is an Excel workbook")
	uploadCmd.Flags().StringVar(&uploadName, "name", "", "Name for the artifact")
	uploadCmd.Flags().StringVar(&uploadType, "type", "dataset", "Type of the artifact")
	uploadCmd.Flags().StringVar(&uploadDescription, "description", "", "Description for the artifact")
	uploadCmd.MarkFlagRequired("file")
	uploadCmd.MarkFlagRequired("name")
}

// uploadOptions collects everything one upload needs.
type uploadOptions struct {
	FilePath    string
	Sheet       string
	Project     string
	Name        string
	Type        string
	Description string
}

func runUpload(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	defer logger.Sync()

	client := NewAPIClient()
	ld := loader.New(logger)

	artifact, tbl, err := doUpload(client, ld, uploadOptions{
		FilePath:    uploadFile,
		Sheet:       uploadSheet,
		Project:     GetProject(),
		Name:        uploadName,
		Type:        uploadType,
		Description: uploadDescription,
	})
	if err != nil {
		return err
	}

	logger.Info("data loaded and artifact logged",
		zap.String("artifact", artifact.Name),
		zap.String("id", artifact.ID))

	file := artifact.File(artifactFileName)
	cmd.Printf("✓ artifact %s/%s logged (%d rows, %d columns, %d bytes)\n",
		artifact.Type, artifact.Name, tbl.NumRows(), tbl.NumCols(), file.Size)
	return nil
}

// doUpload runs the upload sequence: start a run, load the file, serialize
// it to CSV, create the artifact, upload the content, finish the run. Any
// failure aborts the sequence; there is no retry.
func doUpload(client *APIClient, ld *loader.Loader, opts uploadOptions) (*tracker.Artifact, *table.Table, error) {
	run, err := client.CreateRun(opts.Project, "data-loader")
	if err != nil {
		return nil, nil, err
	}

	tbl, err := ld.Load(opts.FilePath, opts.Sheet)
	if err != nil {
		return nil, nil, err
	}

	var buf bytes.Buffer
	if err := tbl.WriteCSV(&buf); err != nil {
		return nil, nil, fmt.Errorf("failed to serialize table: %w", err)
	}

	artifact, err := client.CreateArtifact(run.ID, tracker.CreateArtifactRequest{
		Name:        opts.Name,
		Type:        opts.Type,
		Description: opts.Description,
	})
	if err != nil {
		return nil, nil, err
	}

	file, err := client.UploadFile(artifact.ID, artifactFileName, buf.Bytes())
	if err != nil {
		return nil, nil, err
	}
	artifact.Files = append(artifact.Files, *file)

	if _, err := client.FinishRun(run.ID); err != nil {
		return nil, nil, err
	}

	return artifact, tbl, nil
}
