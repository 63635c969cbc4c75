package web

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/calyx-labs/duet-cli/internal/connectors/filesystem"
	"github.com/calyx-labs/duet-cli/internal/core/domain"
)

// maxUploadSize bounds document uploads.
const maxUploadSize = 32 << 20 // 32 MB

// defaultSession is used when a chat request omits the session ID.
const defaultSession = "web"

type chatRequest struct {
	SessionID string `json:"session_id"`
	Question  string `json:"question" binding:"required"`
}

type passageResponse struct {
	DocumentTitle string  `json:"document_title"`
	DocumentURI   string  `json:"document_uri"`
	Content       string  `json:"content"`
	Score         float64 `json:"score"`
}

type chatResponse struct {
	SessionID string            `json:"session_id"`
	Question  string            `json:"question"`
	Answer    string            `json:"answer"`
	Reasoning string            `json:"reasoning"`
	Passages  []passageResponse `json:"passages"`
}

func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question is required"})
		return
	}
	if req.SessionID == "" {
		req.SessionID = defaultSession
	}

	exchange, err := s.services.Pipeline.Ask(c.Request.Context(), req.SessionID, req.Question)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, chatResponse{
		SessionID: exchange.SessionID,
		Question:  exchange.Question,
		Answer:    exchange.Answer,
		Reasoning: exchange.Reasoning,
		Passages:  toPassageResponses(exchange.Retrieved),
	})
}

type retrieveRequest struct {
	Question string `json:"question" binding:"required"`
	TopK     int    `json:"top_k"`
}

func (s *Server) handleRetrieve(c *gin.Context) {
	var req retrieveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question is required"})
		return
	}

	result, err := s.services.Pipeline.Retrieve(c.Request.Context(), req.Question, req.TopK)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"query":    result.Query,
		"passages": toPassageResponses(result),
	})
}

type messageResponse struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

func (s *Server) handleGetHistory(c *gin.Context) {
	sessionID := c.Param("session")

	conv, err := s.services.Pipeline.History(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	msgs := make([]messageResponse, 0, len(conv.Messages))
	for _, m := range conv.Messages {
		msgs = append(msgs, messageResponse{
			ID:        m.ID,
			Role:      string(m.Role),
			Content:   m.Content,
			CreatedAt: m.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": conv.SessionID,
		"messages":   msgs,
	})
}

func (s *Server) handleClearHistory(c *gin.Context) {
	sessionID := c.Param("session")

	if err := s.services.Pipeline.ClearHistory(c.Request.Context(), sessionID); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) handleListDocuments(c *gin.Context) {
	if s.services.DocumentStore == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "document store not configured"})
		return
	}

	docs, err := s.services.DocumentStore.ListDocuments(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]gin.H, 0, len(docs))
	for i := range docs {
		out = append(out, gin.H{
			"id":     docs[i].ID,
			"uri":    docs[i].URI,
			"title":  docs[i].Title,
			"format": docs[i].Format,
		})
	}
	c.JSON(http.StatusOK, gin.H{"documents": out})
}

func (s *Server) handleUploadDocument(c *gin.Context) {
	if s.services.Ingest == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "ingest service not configured"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file field is required"})
		return
	}
	if fileHeader.Size > maxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxUploadSize+1))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	mimeType, ok := filesystem.DetectMIMEType(fileHeader.Filename, content)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported file type"})
		return
	}

	raw := &domain.RawDocument{
		URI:      "upload://" + fileHeader.Filename,
		MIMEType: mimeType,
		Content:  content,
		Metadata: map[string]any{
			"uploaded": true,
			"filename": fileHeader.Filename,
		},
	}

	chunks, err := s.services.Ingest.IngestRaw(c.Request.Context(), raw)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"uri":    raw.URI,
		"chunks": chunks,
	})
}

func (s *Server) handleRemoveDocument(c *gin.Context) {
	if s.services.Ingest == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "ingest service not configured"})
		return
	}

	uri := strings.TrimSpace(c.Query("uri"))
	if uri == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "uri query parameter is required"})
		return
	}

	if err := s.services.Ingest.Remove(c.Request.Context(), uri); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) handleStatus(c *gin.Context) {
	status := gin.H{}

	if session := c.Query("session"); session != "" {
		status["stage"] = s.services.Pipeline.Stage(session).String()
	}

	if s.services.DocumentStore != nil {
		if chunks, err := s.services.DocumentStore.CountChunks(c.Request.Context()); err == nil {
			status["chunks"] = chunks
		}
		if docs, err := s.services.DocumentStore.ListDocuments(c.Request.Context()); err == nil {
			status["documents"] = len(docs)
		}
	}
	if s.services.VectorIndex != nil {
		if vectors, err := s.services.VectorIndex.Count(c.Request.Context()); err == nil {
			status["vectors"] = vectors
		}
	}

	c.JSON(http.StatusOK, status)
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func toPassageResponses(result domain.RetrievalResult) []passageResponse {
	out := make([]passageResponse, 0, len(result.Passages))
	for _, p := range result.Passages {
		out = append(out, passageResponse{
			DocumentTitle: p.DocumentTitle,
			DocumentURI:   p.DocumentURI,
			Content:       p.Chunk.Content,
			Score:         p.Score,
		})
	}
	return out
}

// statusForError maps domain errors to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrUnsupportedFormat),
		errors.Is(err, domain.ErrEmptyDocument):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrModelTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, domain.ErrEmbeddingUnavailable),
		errors.Is(err, domain.ErrModelUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
