package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"registro/database"
	"registro/models"
	"registro/service"
)

// Manage lists fields and records for the management page. Renders degraded
// with a danger notice when the company store is missing.
func Manage(c *gin.Context) {
	session := currentSession(c)

	db, err := database.OpenCompanyStore(session.StorePath)
	if err != nil {
		log.Printf("Company store unavailable for user %d: %v", session.UserID, err)
		c.HTML(http.StatusOK, "manage.html", gin.H{
			"Session": session,
			"Flash":   &Notice{Category: NoticeDanger, Message: "Company database is not available"},
		})
		return
	}
	defer database.CloseCompanyStore(db)

	store := service.NewStoreService(db)
	fields, err := store.ListFields()
	if err != nil {
		renderStoreError(c, session, "manage.html", err)
		return
	}
	records, err := store.ListRecords()
	if err != nil {
		renderStoreError(c, session, "manage.html", err)
		return
	}

	c.HTML(http.StatusOK, "manage.html", gin.H{
		"Session":   session,
		"Flash":     takeFlash(c),
		"Campos":    fields,
		"Registros": records,
	})
}

// AddField adds a user-defined field to the company store
func AddField(c *gin.Context) {
	req := models.FieldCreate{
		Name: c.PostForm("nombre"),
		Type: c.PostForm("tipo"),
	}

	db, ok := openStore(c, "/manage")
	if !ok {
		return
	}
	defer database.CloseCompanyStore(db)

	field, err := service.NewStoreService(db).AddField(req)
	switch {
	case err == nil:
		flashRedirect(c, NoticeSuccess, "Field '"+field.Name+"' added", "/manage")
	case errors.Is(err, service.ErrValidation):
		flashRedirect(c, NoticeDanger, "Field name and a valid type are required", "/manage")
	case errors.Is(err, service.ErrFieldExists):
		flashRedirect(c, NoticeWarning, "That field already exists", "/manage")
	default:
		log.Printf("Failed to add field: %v", err)
		flashRedirect(c, NoticeDanger, "Failed to add field", "/manage")
	}
}

// DeleteField removes a field and every value referencing it
func DeleteField(c *gin.Context) {
	fieldID, ok := paramID(c)
	if !ok {
		flashRedirect(c, NoticeDanger, "Invalid field id", "/manage")
		return
	}

	db, storeOK := openStore(c, "/manage")
	if !storeOK {
		return
	}
	defer database.CloseCompanyStore(db)

	if err := service.NewStoreService(db).DeleteField(fieldID); err != nil {
		log.Printf("Failed to delete field %d: %v", fieldID, err)
		flashRedirect(c, NoticeDanger, "Failed to delete field", "/manage")
		return
	}

	flashRedirect(c, NoticeInfo, "Field deleted", "/manage")
}
