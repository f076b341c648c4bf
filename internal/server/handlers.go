package server

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"time"

	"github.com/datalift/datalift/pkg/tracker"
	"github.com/labstack/echo/v4"
)

// maxFileSize caps a single artifact file upload at 512 MiB.
const maxFileSize = 512 << 20

// createRun handles POST /api/v1/runs.
func (s *Server) createRun(c echo.Context) error {
	ctx := c.Request().Context()

	var req tracker.CreateRunRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
	}

	if req.Project == "" {
		req.Project = "default"
	}

	run := &tracker.Run{
		Project:   req.Project,
		JobType:   req.JobType,
		State:     tracker.RunStateRunning,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.store.CreateRun(ctx, run); err != nil {
		return s.handleError(c, err)
	}

	if s.metrics != nil {
		s.metrics.RunStarted()
	}

	return c.JSON(http.StatusCreated, run)
}

// listRuns handles GET /api/v1/runs. An optional ?project= query filters by
// project.
func (s *Server) listRuns(c echo.Context) error {
	ctx := c.Request().Context()

	runs, err := s.store.ListRuns(ctx)
	if err != nil {
		return s.handleError(c, err)
	}

	if project := c.QueryParam("project"); project != "" {
		filtered := make([]*tracker.Run, 0, len(runs))
		for _, run := range runs {
			if run.Project == project {
				filtered = append(filtered, run)
			}
		}
		runs = filtered
	}

	return c.JSON(http.StatusOK, runs)
}

// getRun handles GET /api/v1/runs/:id.
func (s *Server) getRun(c echo.Context) error {
	ctx := c.Request().Context()

	run, err := s.store.GetRun(ctx, c.Param("id"))
	if err != nil {
		return s.handleError(c, err)
	}

	return c.JSON(http.StatusOK, run)
}

// finishRun handles POST /api/v1/runs/:id/finish. Finishing an already
// finished run is a no-op.
func (s *Server) finishRun(c echo.Context) error {
	ctx := c.Request().Context()

	run, err := s.store.GetRun(ctx, c.Param("id"))
	if err != nil {
		return s.handleError(c, err)
	}

	if run.State != tracker.RunStateFinished {
		now := time.Now().UTC()
		run.State = tracker.RunStateFinished
		run.FinishedAt = &now

		if err := s.store.UpdateRun(ctx, run); err != nil {
			return s.handleError(c, err)
		}

		if s.metrics != nil {
			s.metrics.RunFinished()
		}
	}

	return c.JSON(http.StatusOK, run)
}

// createArtifact handles POST /api/v1/runs/:id/artifacts.
func (s *Server) createArtifact(c echo.Context) error {
	ctx := c.Request().Context()
	runID := c.Param("id")

	if _, err := s.store.GetRun(ctx, runID); err != nil {
		return s.handleError(c, err)
	}

	var req tracker.CreateArtifactRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
	}

	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{
			Error:   "invalid_request",
			Message: "name is required",
		})
	}
	if req.Type == "" {
		req.Type = "dataset"
	}

	now := time.Now().UTC()
	artifact := &tracker.Artifact{
		RunID:       runID,
		Name:        req.Name,
		Type:        req.Type,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.CreateArtifact(ctx, artifact); err != nil {
		return s.handleError(c, err)
	}

	if s.metrics != nil {
		s.metrics.ArtifactCreated(artifact.Type)
	}

	return c.JSON(http.StatusCreated, artifact)
}

// listArtifacts handles GET /api/v1/artifacts. An optional ?run= query
// filters by run ID.
func (s *Server) listArtifacts(c echo.Context) error {
	ctx := c.Request().Context()

	artifacts, err := s.store.ListArtifacts(ctx)
	if err != nil {
		return s.handleError(c, err)
	}

	if runID := c.QueryParam("run"); runID != "" {
		filtered := make([]*tracker.Artifact, 0, len(artifacts))
		for _, artifact := range artifacts {
			if artifact.RunID == runID {
				filtered = append(filtered, artifact)
			}
		}
		artifacts = filtered
	}

	return c.JSON(http.StatusOK, artifacts)
}

// getArtifact handles GET /api/v1/artifacts/:id.
func (s *Server) getArtifact(c echo.Context) error {
	ctx := c.Request().Context()

	artifact, err := s.store.GetArtifact(ctx, c.Param("id"))
	if err != nil {
		return s.handleError(c, err)
	}

	return c.JSON(http.StatusOK, artifact)
}

// uploadFile handles PUT /api/v1/artifacts/:id/files/:name. The body is the
// raw file content; re-uploading a name replaces the previous content.
func (s *Server) uploadFile(c echo.Context) error {
	ctx := c.Request().Context()
	artifactID := c.Param("id")
	name := c.Param("name")

	artifact, err := s.store.GetArtifact(ctx, artifactID)
	if err != nil {
		return s.handleError(c, err)
	}

	content, err := io.ReadAll(io.LimitReader(c.Request().Body, maxFileSize+1))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
	}
	if len(content) > maxFileSize {
		return c.JSON(http.StatusRequestEntityTooLarge, errorResponse{
			Error:   "file_too_large",
			Message: "file exceeds the maximum upload size",
		})
	}

	if err := s.store.PutFile(ctx, artifactID, name, content); err != nil {
		return s.handleError(c, err)
	}

	digest := sha256.Sum256(content)
	file := tracker.ArtifactFile{
		Name:   name,
		Size:   int64(len(content)),
		Digest: hex.EncodeToString(digest[:]),
	}

	if existing := artifact.File(name); existing != nil {
		*existing = file
	} else {
		artifact.Files = append(artifact.Files, file)
	}
	artifact.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateArtifact(ctx, artifact); err != nil {
		return s.handleError(c, err)
	}

	if s.metrics != nil {
		s.metrics.FileUploaded(file.Size)
	}

	return c.JSON(http.StatusCreated, file)
}

// downloadFile handles GET /api/v1/artifacts/:id/files/:name.
func (s *Server) downloadFile(c echo.Context) error {
	ctx := c.Request().Context()

	content, err := s.store.GetFile(ctx, c.Param("id"), c.Param("name"))
	if err != nil {
		return s.handleError(c, err)
	}

	return c.Blob(http.StatusOK, "application/octet-stream", content)
}
