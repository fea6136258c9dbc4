package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"registro/auth"
	"registro/database"
	"registro/service"
)

// Index lists all records. When the company store is missing the page still
// renders, degraded to a danger notice.
func Index(c *gin.Context) {
	session := currentSession(c)

	db, err := database.OpenCompanyStore(session.StorePath)
	if err != nil {
		log.Printf("Company store unavailable for user %d: %v", session.UserID, err)
		c.HTML(http.StatusOK, "index.html", gin.H{
			"Session": session,
			"Flash":   &Notice{Category: NoticeDanger, Message: "Company database is not available"},
		})
		return
	}
	defer database.CloseCompanyStore(db)

	store := service.NewStoreService(db)
	fields, err := store.ListFields()
	if err != nil {
		renderStoreError(c, session, "index.html", err)
		return
	}
	records, err := store.ListRecords()
	if err != nil {
		renderStoreError(c, session, "index.html", err)
		return
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"Session":   session,
		"Flash":     takeFlash(c),
		"Campos":    fields,
		"Registros": records,
	})
}

// ShowAddRecord renders the add-record form
func ShowAddRecord(c *gin.Context) {
	db, ok := openStore(c, "/")
	if !ok {
		return
	}
	defer database.CloseCompanyStore(db)

	fields, err := service.NewStoreService(db).ListFields()
	if err != nil {
		log.Printf("Failed to list fields: %v", err)
		flashRedirect(c, NoticeDanger, "Internal error, please try again", "/")
		return
	}

	c.HTML(http.StatusOK, "agregar.html", gin.H{
		"Session": currentSession(c),
		"Flash":   takeFlash(c),
		"Campos":  fields,
	})
}

// AddRecord creates a record from the submitted per-field values
func AddRecord(c *gin.Context) {
	db, ok := openStore(c, "/")
	if !ok {
		return
	}
	defer database.CloseCompanyStore(db)

	store := service.NewStoreService(db)
	values, err := collectFieldValues(c, store)
	if err != nil {
		log.Printf("Failed to read submitted values: %v", err)
		flashRedirect(c, NoticeDanger, "Internal error, please try again", "/")
		return
	}

	if _, err := store.AddRecord(values); err != nil {
		log.Printf("Failed to add record: %v", err)
		flashRedirect(c, NoticeDanger, "Failed to add record", "/")
		return
	}

	flashRedirect(c, NoticeSuccess, "Record added", "/")
}

// ShowEditRecord renders the edit form pre-filled with stored values
func ShowEditRecord(c *gin.Context) {
	recordID, ok := paramID(c)
	if !ok {
		flashRedirect(c, NoticeDanger, "Invalid record id", "/")
		return
	}

	db, storeOK := openStore(c, "/")
	if !storeOK {
		return
	}
	defer database.CloseCompanyStore(db)

	store := service.NewStoreService(db)
	fields, err := store.ListFields()
	if err != nil {
		log.Printf("Failed to list fields: %v", err)
		flashRedirect(c, NoticeDanger, "Internal error, please try again", "/")
		return
	}
	values, err := store.GetRecordValues(recordID)
	if err != nil {
		log.Printf("Failed to load record %d: %v", recordID, err)
		flashRedirect(c, NoticeDanger, "Internal error, please try again", "/")
		return
	}

	c.HTML(http.StatusOK, "editar.html", gin.H{
		"Session":    currentSession(c),
		"Flash":      takeFlash(c),
		"Campos":     fields,
		"RegistroID": recordID,
		"Valores":    values,
	})
}

// EditRecord replaces the record's values with the submission
func EditRecord(c *gin.Context) {
	recordID, ok := paramID(c)
	if !ok {
		flashRedirect(c, NoticeDanger, "Invalid record id", "/")
		return
	}

	db, storeOK := openStore(c, "/")
	if !storeOK {
		return
	}
	defer database.CloseCompanyStore(db)

	store := service.NewStoreService(db)
	values, err := collectFieldValues(c, store)
	if err != nil {
		log.Printf("Failed to read submitted values: %v", err)
		flashRedirect(c, NoticeDanger, "Internal error, please try again", "/")
		return
	}

	if err := store.EditRecord(recordID, values); err != nil {
		log.Printf("Failed to update record %d: %v", recordID, err)
		flashRedirect(c, NoticeDanger, "Failed to update record", "/")
		return
	}

	flashRedirect(c, NoticeSuccess, "Record updated", "/")
}

// DeleteRecord removes a record and its values
func DeleteRecord(c *gin.Context) {
	recordID, ok := paramID(c)
	if !ok {
		flashRedirect(c, NoticeDanger, "Invalid record id", "/manage")
		return
	}

	db, storeOK := openStore(c, "/manage")
	if !storeOK {
		return
	}
	defer database.CloseCompanyStore(db)

	if err := service.NewStoreService(db).DeleteRecord(recordID); err != nil {
		log.Printf("Failed to delete record %d: %v", recordID, err)
		flashRedirect(c, NoticeDanger, "Failed to delete record", "/manage")
		return
	}

	flashRedirect(c, NoticeInfo, "Record deleted", "/manage")
}

// collectFieldValues builds the field-id keyed submission map from the form,
// one field_<id> input per defined field.
func collectFieldValues(c *gin.Context, store *service.StoreService) (map[uint]string, error) {
	fields, err := store.ListFields()
	if err != nil {
		return nil, err
	}

	values := make(map[uint]string, len(fields))
	for _, field := range fields {
		values[field.ID] = c.PostForm(fmt.Sprintf("field_%d", field.ID))
	}
	return values, nil
}

func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

func renderStoreError(c *gin.Context, session *auth.Session, template string, err error) {
	log.Printf("Store query failed: %v", err)
	c.HTML(http.StatusOK, template, gin.H{
		"Session": session,
		"Flash":   &Notice{Category: NoticeDanger, Message: "Internal error, please try again"},
	})
}
