package cmd

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/datalift/datalift/pkg/tracker"
	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Display tracked runs or artifacts",
	Long: `Display one or many tracked resources from the tracking server.

Resource types:
  runs, run
  artifacts, artifact

Examples:
  # List all runs in the current project
  datalift get runs

  # Get a specific run
  datalift get run 4f3a2c1e-...

  # List artifacts in YAML format
  datalift get artifacts -o yaml`,
	RunE:      runGet,
	ValidArgs: []string{"runs", "run", "artifacts", "artifact"},
}

func init() {
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("resource type is required")
	}

	client := NewAPIClient()
	outputFormat := GetOutputFormat()

	resourceType := normalizeResourceType(strings.ToLower(args[0]))
	var resourceID string
	if len(args) > 1 {
		resourceID = args[1]
	}

	switch resourceType {
	case "run":
		if resourceID != "" {
			var run tracker.Run
			if err := getResource(client, getGetPath(resourceType, resourceID), &run); err != nil {
				if client.IsNotFound(err) {
					return fmt.Errorf("run %q not found", resourceID)
				}
				return err
			}
			return PrintResource(os.Stdout, run, outputFormat)
		}

		var runs []tracker.Run
		if err := getResource(client, getListPath(resourceType, GetProject()), &runs); err != nil {
			return err
		}
		if outputFormat == OutputFormatTable {
			return printRunTable(os.Stdout, runs)
		}
		return PrintResource(os.Stdout, runs, outputFormat)

	case "artifact":
		if resourceID != "" {
			var artifact tracker.Artifact
			if err := getResource(client, getGetPath(resourceType, resourceID), &artifact); err != nil {
				if client.IsNotFound(err) {
					return fmt.Errorf("artifact %q not found", resourceID)
				}
				return err
			}
			return PrintResource(os.Stdout, artifact, outputFormat)
		}

		var artifacts []tracker.Artifact
		if err := getResource(client, getListPath(resourceType, ""), &artifacts); err != nil {
			return err
		}
		if outputFormat == OutputFormatTable {
			return printArtifactTable(os.Stdout, artifacts)
		}
		return PrintResource(os.Stdout, artifacts, outputFormat)

	default:
		return fmt.Errorf("unsupported resource type: %s", args[0])
	}
}

// getResource fetches a path and decodes the JSON response into v.
func getResource(client *APIClient, path string, v interface{}) error {
	resp, err := client.Get(path)
	if err != nil {
		return fmt.Errorf("failed to get resource: %w", err)
	}
	return client.HandleResponse(resp, v)
}

// normalizeResourceType converts resource type to standard form.
func normalizeResourceType(resourceType string) string {
	switch resourceType {
	case "run", "runs":
		return "run"
	case "artifact", "artifacts":
		return "artifact"
	default:
		return resourceType
	}
}

// getGetPath returns the API path for getting a single resource.
func getGetPath(resourceType, id string) string {
	switch resourceType {
	case "run":
		return fmt.Sprintf("/api/v1/runs/%s", id)
	case "artifact":
		return fmt.Sprintf("/api/v1/artifacts/%s", id)
	default:
		return ""
	}
}

// getListPath returns the API path for listing resources. Runs are scoped to
// a project; artifacts are not.
func getListPath(resourceType, project string) string {
	switch resourceType {
	case "run":
		if project != "" {
			return "/api/v1/runs?project=" + url.QueryEscape(project)
		}
		return "/api/v1/runs"
	case "artifact":
		return "/api/v1/artifacts"
	default:
		return ""
	}
}

// printRunTable prints runs in table format.
func printRunTable(w io.Writer, runs []tracker.Run) error {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs found.")
		return nil
	}

	tw := NewTabWriter(w)
	defer tw.Flush()

	fmt.Fprintln(tw, "ID\tPROJECT\tJOB TYPE\tSTATE\tCREATED")
	for _, run := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			run.ID, run.Project, run.JobType, run.State, formatTime(run.CreatedAt))
	}
	return nil
}

// printArtifactTable prints artifacts in table format.
func printArtifactTable(w io.Writer, artifacts []tracker.Artifact) error {
	if len(artifacts) == 0 {
		fmt.Fprintln(w, "No artifacts found.")
		return nil
	}

	tw := NewTabWriter(w)
	defer tw.Flush()

	fmt.Fprintln(tw, "ID\tNAME\tTYPE\tRUN\tFILES\tCREATED")
	for _, artifact := range artifacts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n",
			artifact.ID, artifact.Name, artifact.Type, artifact.RunID,
			len(artifact.Files), formatTime(artifact.CreatedAt))
	}
	return nil
}

// formatTime formats a timestamp for table display.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return "<unknown>"
	}
	return t.Format("2006-01-02 15:04:05")
}
