package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rogersnm/contractme/internal/api"
	"github.com/rogersnm/contractme/internal/model"
	"github.com/sirupsen/logrus"
)

const (
	defaultRecentLimit = 5
	unreadableContent  = "Contenuto non disponibile per questo tipo di file."
)

func (s *Server) addDocument(c *gin.Context) {
	var meta model.DocumentMeta
	if err := c.ShouldBindJSON(&meta); err != nil {
		badRequest(c, err.Error())
		return
	}
	docID, err := s.st.Documents.Add(meta)
	if err != nil {
		s.writeError(c, err)
		return
	}
	doc, err := s.st.Documents.Get(docID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	respond(c, http.StatusCreated, doc)
}

func (s *Server) listDocuments(c *gin.Context) {
	respond(c, http.StatusOK, s.st.Documents.List(c.Query("category")))
}

func (s *Server) recentDocuments(c *gin.Context) {
	limit, ok := intQuery(c, "limit", defaultRecentLimit)
	if !ok {
		return
	}
	var within *int
	if c.Query("within_days") != "" {
		n, ok := intQuery(c, "within_days", 0)
		if !ok {
			return
		}
		within = &n
	}
	respond(c, http.StatusOK, s.st.Documents.Recent(limit, within))
}

func (s *Server) getDocument(c *gin.Context) {
	doc, err := s.st.Documents.Get(c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, doc)
}

func (s *Server) removeDocument(c *gin.Context) {
	removed, err := s.st.Documents.Remove(c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, api.RemovedResponse{RemovedDeadlines: removed})
}

// askDocument answers a question about a document. Content that cannot be
// read still gets an answer, built from a placeholder text.
func (s *Server) askDocument(c *gin.Context) {
	var req api.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		badRequest(c, "question is required")
		return
	}
	doc, err := s.st.Documents.Get(c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}

	text := unreadableContent
	if s.content != nil && doc.ContentRef != "" {
		t, err := s.content.Text(doc.ContentRef)
		if err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{"document": doc.ID, "ref": doc.ContentRef}).Warn("content unreadable")
		} else {
			text = t
		}
	}

	respond(c, http.StatusOK, api.AskResponse{
		DocumentID: doc.ID,
		Answer:     s.answerer.Respond(req.Question, text),
	})
}
