package handlers

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JorgeHRP/conteudoteste/internal/auth"
	"github.com/JorgeHRP/conteudoteste/internal/docs"
	"github.com/JorgeHRP/conteudoteste/internal/gateway"
	"github.com/JorgeHRP/conteudoteste/pkg/i18n"
)

var __ = i18n.Translate

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the embedded page templates for gin's HTML renderer.
func Templates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.html")
}

// ChatGateway is the slice of the gateway client the pages need.
type ChatGateway interface {
	FindChats(ctx context.Context) ([]gateway.RawChat, error)
	FindMessages(ctx context.Context, remoteJID string) ([]gateway.RawMessage, error)
}

type PageHandler struct {
	auth *auth.Service
	gw   ChatGateway
	docs *docs.Store
}

func NewPageHandler(authSvc *auth.Service, gw ChatGateway, docStore *docs.Store) *PageHandler {
	return &PageHandler{auth: authSvc, gw: gw, docs: docStore}
}

// LoginPage renders the login form.
func (h *PageHandler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{})
}

// LoginSubmit checks the submitted credentials. Unknown name and wrong
// password produce the same message; a failing credential store produces a
// generic internal error instead of a stack trace.
func (h *PageHandler) LoginSubmit(c *gin.Context) {
	nome := c.PostForm("nome")
	senha := c.PostForm("senha")

	user, err := h.auth.Login(nome, senha)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.HTML(http.StatusOK, "login.html", gin.H{"Erro": __("invalid username or password")})
			return
		}
		log.Printf("login: credential store error: %v", err)
		c.HTML(http.StatusInternalServerError, "login.html", gin.H{"Erro": __("internal error, try again")})
		return
	}

	token, err := h.auth.IssueSession(user.Nome)
	if err != nil {
		log.Printf("login: failed to issue session: %v", err)
		c.HTML(http.StatusInternalServerError, "login.html", gin.H{"Erro": __("internal error, try again")})
		return
	}

	c.SetCookie(SessionCookie, token, int((24 * time.Hour).Seconds()), "/", "", false, true)
	c.Redirect(http.StatusFound, "/home")
}

// Logout clears the session cookie.
func (h *PageHandler) Logout(c *gin.Context) {
	c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/")
}

// Home renders the landing page.
func (h *PageHandler) Home(c *gin.Context) {
	c.HTML(http.StatusOK, "home.html", gin.H{"Usuario": c.GetString("usuario")})
}

// Dashboard renders the dashboard page.
func (h *PageHandler) Dashboard(c *gin.Context) {
	c.HTML(http.StatusOK, "dashboard.html", gin.H{"Usuario": c.GetString("usuario")})
}

// Conversas renders the chat list and, when ?jid= is given, the selected
// conversation's messages. A failing gateway call degrades that section to
// empty instead of failing the page.
func (h *PageHandler) Conversas(c *gin.Context) {
	remoteJID := c.Query("jid")

	chats := []gateway.Chat{}
	if raw, err := h.gw.FindChats(c.Request.Context()); err != nil {
		log.Printf("conversas: failed to fetch chats: %v", err)
	} else {
		chats = gateway.FormatChats(raw)
	}

	messages := []gateway.Message{}
	if remoteJID != "" {
		if raw, err := h.gw.FindMessages(c.Request.Context(), remoteJID); err != nil {
			log.Printf("conversas: failed to fetch messages for %s: %v", gateway.ShortJID(remoteJID), err)
		} else {
			messages = gateway.FormatMessages(raw)
		}
	}

	c.HTML(http.StatusOK, "conversas.html", gin.H{
		"Usuario":   c.GetString("usuario"),
		"Chats":     chats,
		"Messages":  messages,
		"RemoteJID": remoteJID,
	})
}

// UploadsPage renders the upload form and the document log.
func (h *PageHandler) UploadsPage(c *gin.Context) {
	c.HTML(http.StatusOK, "uploads.html", gin.H{
		"Usuario":    c.GetString("usuario"),
		"Documentos": h.docs.List(),
	})
}

// UploadSubmit validates and stores one uploaded document. Every rejection
// has a specific user-facing reason and leaves no trace on disk or in the
// log.
func (h *PageHandler) UploadSubmit(c *gin.Context) {
	usuario := c.GetString("usuario")
	observacao := c.PostForm("observacao")

	renderWith := func(status int, mensagem string) {
		c.HTML(status, "uploads.html", gin.H{
			"Usuario":    usuario,
			"Mensagem":   mensagem,
			"Documentos": h.docs.List(),
		})
	}

	header, err := c.FormFile("file")
	if err != nil || header.Filename == "" {
		renderWith(http.StatusOK, __("no file selected"))
		return
	}

	if !docs.AllowedExtension(header.Filename) {
		renderWith(http.StatusOK, __("file format not allowed"))
		return
	}

	filename := docs.SanitizeFilename(header.Filename)
	if filename == "" {
		renderWith(http.StatusOK, __("invalid file name"))
		return
	}

	if err := c.SaveUploadedFile(header, filepath.Join(h.docs.Dir(), filename)); err != nil {
		log.Printf("uploads: failed to save %s: %v", filename, err)
		renderWith(http.StatusInternalServerError, __("failed to save file"))
		return
	}

	h.docs.Append(docs.Documento{
		Arquivo:    filename,
		Usuario:    usuario,
		Data:       time.Now().Format("02/01/2006 15:04"),
		Observacao: observacao,
	})

	renderWith(http.StatusOK, fmt.Sprintf(__("file sent successfully"), filename))
}

// Download serves a stored document as an attachment.
func (h *PageHandler) Download(c *gin.Context) {
	name := c.Param("filename")
	full, err := h.docs.Path(name)
	if err != nil {
		c.String(http.StatusNotFound, __("file not found"))
		return
	}
	c.FileAttachment(full, name)
}

// Disparo is the dispatch stub: the POST reports success without contacting
// any gateway.
func (h *PageHandler) Disparo(c *gin.Context) {
	data := gin.H{"Usuario": c.GetString("usuario")}
	if c.Request.Method == http.MethodPost {
		data["Sucesso"] = __("dispatch sent successfully")
	}
	c.HTML(http.StatusOK, "disparo.html", data)
}

// Perfil renders the profile page. Email and company are placeholders, not
// read from the credential store.
func (h *PageHandler) Perfil(c *gin.Context) {
	data := gin.H{
		"Usuario": c.GetString("usuario"),
		"Dados": gin.H{
			"Nome":    c.GetString("usuario"),
			"Email":   "usuario@exemplo.com",
			"Empresa": "Faculdade Prado",
		},
	}
	if c.Request.Method == http.MethodPost {
		data["Mensagem"] = __("profile updated")
	}
	c.HTML(http.StatusOK, "perfil.html", data)
}
