package httpapi

import (
	"bytes"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/yuin/goldmark"

	"horse.fit/podscript/internal/audio"
	"horse.fit/podscript/internal/generate"
	"horse.fit/podscript/internal/globaltime"
	"horse.fit/podscript/internal/history"
	"horse.fit/podscript/internal/manuscript"
	"horse.fit/podscript/internal/pipeline"
)

type processResponse struct {
	HistoryID   string   `json:"history_id"`
	Language    string   `json:"language"`
	Titles      []string `json:"titles,omitempty"`
	Description string   `json:"description,omitempty"`
	BlogPost    string   `json:"blog_post,omitempty"`
}

type historyListItem struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	SourceFile string    `json:"source_file"`
	FileType   string    `json:"file_type"`
	Language   string    `json:"language"`
	TitleCount int       `json:"title_count"`
	HasBlog    bool      `json:"has_blog"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return success(c, map[string]any{
		"service": "podscript",
		"time":    globaltime.UTC(),
	})
}

func (s *Server) handleProcess(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return fail(c, http.StatusBadRequest, "file is required", nil)
	}

	lang := strings.TrimSpace(c.FormValue("language"))
	kinds, err := parseKinds(c.FormValue("kinds"))
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error(), nil)
	}

	path, cleanup, err := s.saveUpload(fileHeader)
	if err != nil {
		s.logger.Error().Err(err).Msg("store upload failed")
		return internalError(c, "Failed to store upload")
	}
	defer cleanup()

	transcript, fileType, err := s.extractTranscript(c, path, lang)
	if err != nil {
		return s.writeProcessError(c, err)
	}

	result, err := s.runner.Run(c.Request().Context(), pipeline.Request{
		Transcript: transcript,
		SourceFile: filepath.Base(fileHeader.Filename),
		FileType:   fileType,
		Language:   lang,
		Kinds:      kinds,
	})
	if err != nil {
		return s.writeProcessError(c, err)
	}

	return success(c, processResponse{
		HistoryID:   result.HistoryID,
		Language:    result.Language,
		Titles:      result.Titles,
		Description: result.Description,
		BlogPost:    result.BlogPost,
	})
}

func (s *Server) handleHistoryList(c echo.Context) error {
	records, err := s.store.All()
	if err != nil {
		s.logger.Error().Err(err).Msg("list history failed")
		return internalError(c, "Failed to load history")
	}

	items := make([]historyListItem, 0, len(records))
	for _, record := range records {
		items = append(items, historyListItem{
			ID:         record.ID,
			Timestamp:  record.Timestamp,
			SourceFile: record.SourceFile,
			FileType:   record.FileType,
			Language:   record.Language,
			TitleCount: len(record.Titles),
			HasBlog:    record.BlogPost != "",
		})
	}
	return success(c, map[string]any{"items": items})
}

func (s *Server) handleHistoryDetail(c echo.Context) error {
	record, err := s.store.Load(c.Param("id"))
	if err != nil {
		if errors.Is(err, history.ErrNotFound) {
			return failNotFound(c, "History record not found")
		}
		s.logger.Error().Err(err).Msg("load history record failed")
		return internalError(c, "Failed to load history record")
	}
	return success(c, record)
}

func (s *Server) handleHistoryBlog(c echo.Context) error {
	record, err := s.store.Load(c.Param("id"))
	if err != nil {
		if errors.Is(err, history.ErrNotFound) {
			return failNotFound(c, "History record not found")
		}
		s.logger.Error().Err(err).Msg("load history record failed")
		return internalError(c, "Failed to load history record")
	}
	if record.BlogPost == "" {
		return failNotFound(c, "Record has no blog post")
	}

	var rendered bytes.Buffer
	if err := goldmark.Convert([]byte(record.BlogPost), &rendered); err != nil {
		s.logger.Error().Err(err).Str("id", record.ID).Msg("render blog post failed")
		return internalError(c, "Failed to render blog post")
	}
	return c.HTML(http.StatusOK, rendered.String())
}

// extractTranscript dispatches the uploaded file by extension: text files
// through the manuscript reader, audio files through the transcriber.
func (s *Server) extractTranscript(c echo.Context, path, lang string) (string, string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case ext == ".txt":
		m, err := s.manuscripts.Read(path)
		if err != nil {
			return "", "", err
		}
		if err := m.RequireLanguage(lang); err != nil {
			return "", "", err
		}
		return m.Text, "text", nil
	case audio.IsSupportedExtension(ext):
		text, err := s.audio.Transcribe(c.Request().Context(), path, lang)
		if err != nil {
			return "", "", err
		}
		return text, "audio", nil
	default:
		return "", "", &audio.UnsupportedFormatError{Ext: ext}
	}
}

func (s *Server) saveUpload(fileHeader *multipart.FileHeader) (string, func(), error) {
	src, err := fileHeader.Open()
	if err != nil {
		return "", nil, err
	}
	defer src.Close()

	dir, err := os.MkdirTemp("", "podscript-upload-")
	if err != nil {
		return "", nil, err
	}
	cleanup := func() {
		if removeErr := os.RemoveAll(dir); removeErr != nil {
			s.logger.Warn().Err(removeErr).Msg("failed to remove upload dir")
		}
	}

	path := filepath.Join(dir, filepath.Base(fileHeader.Filename))
	dst, err := os.Create(path)
	if err != nil {
		cleanup()
		return "", nil, err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		cleanup()
		return "", nil, err
	}
	return path, cleanup, nil
}

// writeProcessError maps failure classes onto jsend responses: validation
// to 400, upstream trouble to 502, everything else to 500.
func (s *Server) writeProcessError(c echo.Context, err error) error {
	var (
		unsupportedAudio *audio.UnsupportedFormatError
		unsupportedText  *manuscript.UnsupportedFormatError
		audioSize        *audio.FileSizeError
		textSize         *manuscript.FileSizeError
		duration         *audio.DurationError
	)
	if errors.As(err, &unsupportedAudio) || errors.As(err, &unsupportedText) ||
		errors.As(err, &audioSize) || errors.As(err, &textSize) ||
		errors.As(err, &duration) ||
		errors.Is(err, manuscript.ErrEmptyManuscript) ||
		errors.Is(err, manuscript.ErrUnknownLanguage) {
		return fail(c, http.StatusBadRequest, err.Error(), nil)
	}

	switch pipeline.Classify(err) {
	case pipeline.FailureValidation:
		return fail(c, http.StatusBadRequest, err.Error(), nil)
	case pipeline.FailureTransient:
		return fail(c, http.StatusBadGateway, "Upstream API unavailable, try again later", nil)
	case pipeline.FailureContract:
		return fail(c, http.StatusBadGateway, "Generated content did not meet its contract, try again", nil)
	default:
		s.logger.Error().Err(err).Msg("processing failed")
		return internalError(c, "Processing failed")
	}
}

func parseKinds(raw string) ([]generate.Kind, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	kinds := make([]generate.Kind, 0, 3)
	for _, part := range strings.Split(raw, ",") {
		kind := generate.Kind(strings.TrimSpace(part))
		if kind == "" {
			continue
		}
		if !kind.Valid() {
			return nil, errors.New("unknown artifact kind: " + string(kind))
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}
