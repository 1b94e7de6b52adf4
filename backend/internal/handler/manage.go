package handler

import (
	"context"
	"net/http"

	mw "github.com/itchan-dev/modcore/backend/internal/middleware"
	"github.com/itchan-dev/modcore/shared/domain"
	"github.com/itchan-dev/modcore/shared/utils"
	"github.com/itchan-dev/modcore/shared/validation"
)

type statusResponse struct {
	Status string `json:"status"`
}

type logEntryResponse struct {
	IP        string `json:"ip"`
	Timestamp int64  `json:"timestamp"`
	Username  string `json:"username"`
	Message   string `json:"message"`
}

var importRules = validation.Rules{
	{Key: "db_name", Required: true, Type: validation.TypeString, MinLen: 1, MaxLen: 64},
	{Key: "table_name", Required: true, Type: validation.TypeString, MinLen: 1, MaxLen: 64},
	{Key: "table_type", Required: true, Type: validation.TypeString, MinLen: 1, MaxLen: 32},
	{Key: "board_id", Type: validation.TypeString, MaxLen: 32},
}

var rebuildRules = validation.Rules{
	{Key: "board_id", Required: true, Type: validation.TypeString, MinLen: 1, MaxLen: 32},
}

func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	input, err := decodeInput(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	if err := validation.ValidateFields(input, importRules); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	// the rules skip the min length of empty strings, source names must be set
	dbName, err := validation.ParseString(input, "db_name", validation.WithMinLen(1))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	tableName, err := validation.ParseString(input, "table_name", validation.WithMinLen(1))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	tableType, _ := validation.ParseString(input, "table_type")
	boardID, _ := validation.ParseString(input, "board_id", validation.WithDefaultString(""))
	params := domain.ImportParams{
		DBName:    dbName,
		TableName: tableName,
		TableType: domain.ImportTableType(tableType),
		BoardID:   boardID,
	}

	status, err := h.manage.Import(r.Context(), mw.GetRequestContext(r), params)
	h.writeStatus(w, status, err)
}

func (h *Handler) Rebuild(w http.ResponseWriter, r *http.Request) {
	input, err := decodeInput(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	if err := validation.ValidateFields(input, rebuildRules); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	boardID, _ := validation.ParseString(input, "board_id")

	status, err := h.manage.Rebuild(r.Context(), mw.GetRequestContext(r), boardID)
	h.writeStatus(w, status, err)
}

type selectionAction func(ctx context.Context, rc domain.RequestContext, selection []domain.Selection) (string, error)

func (h *Handler) runSelection(w http.ResponseWriter, r *http.Request, action selectionAction) {
	input, err := decodeInput(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	selection, err := parseSelection(input)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	status, err := action(r.Context(), mw.GetRequestContext(r), selection)
	h.writeStatus(w, status, err)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	h.runSelection(w, r, h.manage.Delete)
}

func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	h.runSelection(w, r, h.manage.Approve)
}

func (h *Handler) ToggleLock(w http.ResponseWriter, r *http.Request) {
	h.runSelection(w, r, h.manage.ToggleLock)
}

func (h *Handler) ToggleSticky(w http.ResponseWriter, r *http.Request) {
	h.runSelection(w, r, h.manage.ToggleSticky)
}

func (h *Handler) Logs(w http.ResponseWriter, r *http.Request) {
	query := map[string]any{}
	if page := r.URL.Query().Get("page"); page != "" {
		query["page"] = page
	}
	page, _ := validation.ParseInt(query, "page", validation.WithDefaultInt(1), validation.WithMin(1))

	entries, err := h.logs.Recent(r.Context(), int(page))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	response := make([]logEntryResponse, len(entries))
	for i, e := range entries {
		response[i] = logEntryResponse{IP: e.IP, Timestamp: e.Timestamp, Username: e.Username, Message: e.Message}
	}
	utils.WriteJSON(w, http.StatusOK, response)
}

func (h *Handler) writeStatus(w http.ResponseWriter, status string, err error) {
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, statusResponse{Status: status})
}
