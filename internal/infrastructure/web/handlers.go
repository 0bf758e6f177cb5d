package web

import (
	"errors"
	"html"
	"net/http"
	"strings"

	"github.com/bnema/careshell/internal/app/messaging"
	"github.com/bnema/careshell/internal/domain/entity"
	"github.com/bnema/careshell/internal/logging"
	"github.com/bnema/careshell/internal/ui/shell"
	"github.com/gin-gonic/gin"
)

// TabsResponse is the JSON view of a workspace.
type TabsResponse struct {
	Tabs       []entity.Tab `json:"tabs"`
	ActiveID   *string      `json:"activeId"`
	NavigateTo *string      `json:"navigateTo"`
}

type shellPage struct {
	Surface     shell.Surface
	ActiveTitle string
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) workspace(c *gin.Context) *shell.Workspace {
	return s.manager.Workspace(clientIDFrom(c))
}

// handleShell treats the path below /shell as the client's location.
func (s *Server) handleShell(c *gin.Context) {
	ctx := c.Request.Context()
	ws := s.workspace(c)

	if href, redirect := ws.Visit(ctx, requestLocation(c)); redirect {
		c.Redirect(http.StatusSeeOther, shellURL(href))
		return
	}

	surface := ws.Render(ctx)
	page := shellPage{Surface: surface}
	for _, tab := range surface.Tabs {
		if tab.Active {
			page.ActiveTitle = tab.Title
		}
	}
	c.HTML(http.StatusOK, "shell.html", page)
}

func (s *Server) handleListTabs(c *gin.Context) {
	ctx := c.Request.Context()
	ws := s.workspace(c)

	snapshot := ws.Snapshot(ctx)
	href, _ := ws.Router().TakeNavigation()
	c.JSON(http.StatusOK, tabsResponse(snapshot, href))
}

func (s *Server) handleOpenAPI(c *gin.Context) {
	var sig messaging.OpenTabSignal
	if err := c.ShouldBindJSON(&sig); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "malformed open-tab payload"})
		return
	}

	href, err := s.open(c, sig)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, tabsResponse(s.workspace(c).Snapshot(c.Request.Context()), href))
}

func (s *Server) handleActivateAPI(c *gin.Context) {
	id := strings.TrimSpace(c.Query("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "id is required"})
		return
	}
	ctx := c.Request.Context()
	ws := s.workspace(c)
	href := ws.Activate(ctx, id)
	c.JSON(http.StatusOK, tabsResponse(ws.Snapshot(ctx), href))
}

func (s *Server) handleCloseAPI(c *gin.Context) {
	id := strings.TrimSpace(c.Query("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "id is required"})
		return
	}
	ctx := c.Request.Context()
	ws := s.workspace(c)
	href := ws.Close(ctx, id)
	c.JSON(http.StatusOK, tabsResponse(ws.Snapshot(ctx), href))
}

func (s *Server) handleOpenForm(c *gin.Context) {
	sig := messaging.OpenTabSignal{Href: c.PostForm("href"), Title: c.PostForm("title")}
	href, err := s.open(c, sig)
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	s.redirectBack(c, href)
}

func (s *Server) handleActivateForm(c *gin.Context) {
	href := s.workspace(c).Activate(c.Request.Context(), c.PostForm("id"))
	s.redirectBack(c, href)
}

func (s *Server) handleCloseForm(c *gin.Context) {
	href := s.workspace(c).Close(c.Request.Context(), c.PostForm("id"))
	s.redirectBack(c, href)
}

// open strips markup from the title and publishes the signal. Titles are
// stored as plain text; templates escape them on output.
func (s *Server) open(c *gin.Context, sig messaging.OpenTabSignal) (string, error) {
	sig.Title = html.UnescapeString(s.sanitizer.Sanitize(sig.Title))
	href, err := s.workspace(c).Open(c.Request.Context(), sig)
	if err != nil {
		if !errors.Is(err, messaging.ErrInvalidSignal) {
			logging.FromContext(c.Request.Context()).Error().Err(err).Msg("open tab failed")
		}
		return "", err
	}
	return href, nil
}

// redirectBack sends a form client to the navigation target, or back to
// where it was when nothing navigated.
func (s *Server) redirectBack(c *gin.Context, href string) {
	if href == "" {
		href = s.workspace(c).Router().CurrentLocation(c.Request.Context())
	}
	c.Redirect(http.StatusSeeOther, shellURL(href))
}

func requestLocation(c *gin.Context) string {
	location := c.Param("path")
	if location == "" {
		location = "/"
	}
	if q := c.Request.URL.RawQuery; q != "" {
		location += "?" + q
	}
	return location
}

func shellURL(href string) string {
	return shellPrefix + href
}

func tabsResponse(tabs *entity.TabSet, navigateTo string) TabsResponse {
	resp := TabsResponse{Tabs: tabs.Tabs}
	if resp.Tabs == nil {
		resp.Tabs = []entity.Tab{}
	}
	if tabs.ActiveID != nil {
		id := string(*tabs.ActiveID)
		resp.ActiveID = &id
	}
	if navigateTo != "" {
		resp.NavigateTo = &navigateTo
	}
	return resp
}
