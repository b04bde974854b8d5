package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rogersnm/contractme/internal/api"
	"github.com/rogersnm/contractme/internal/dashboard"
	"github.com/rogersnm/contractme/internal/model"
)

func (s *Server) addDeadline(c *gin.Context) {
	var req api.CreateDeadlineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	in := model.DeadlineInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		DocumentID:  req.DocumentID,
	}
	if req.Date != "" {
		date, err := model.ParseDate(req.Date, s.st.Now().Location())
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		in.Date = date
	}

	dlID, err := s.st.Deadlines.Add(in)
	if err != nil {
		s.writeError(c, err)
		return
	}
	d, err := s.st.Deadlines.Get(dlID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	respond(c, http.StatusCreated, s.view(d))
}

func (s *Server) listDeadlines(c *gin.Context) {
	list := s.st.Deadlines.List(c.Query("category"))
	switch c.Query("sort") {
	case "":
	case "date":
		list = s.st.Deadlines.SortedByDate(list)
	default:
		badRequest(c, "sort must be \"date\"")
		return
	}

	views := make([]api.DeadlineView, len(list))
	for i, d := range list {
		views[i] = s.view(d)
	}
	respond(c, http.StatusOK, views)
}

func (s *Server) getDeadline(c *gin.Context) {
	d, err := s.st.Deadlines.Get(c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, s.view(d))
}

func (s *Server) removeDeadline(c *gin.Context) {
	if err := s.st.Deadlines.Remove(c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) upcomingDeadlines(c *gin.Context) {
	within, ok := intQuery(c, "within_days", s.upcomingDays())
	if !ok {
		return
	}
	respond(c, http.StatusOK, api.CountResponse{
		Count:      s.st.Deadlines.Upcoming(within),
		WithinDays: within,
	})
}

func (s *Server) view(d model.Deadline) api.DeadlineView {
	return api.NewDeadlineView(d, s.st.Now(), s.st.Deadlines.Linked(d))
}

func (s *Server) upcomingDays() int {
	if s.opts.UpcomingDays > 0 {
		return s.opts.UpcomingDays
	}
	return dashboard.DefaultUpcomingDays
}

// intQuery reads an integer query parameter, writing a 400 and returning
// false when it does not parse.
func intQuery(c *gin.Context, name string, def int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		badRequest(c, name+" must be an integer")
		return 0, false
	}
	return n, true
}
