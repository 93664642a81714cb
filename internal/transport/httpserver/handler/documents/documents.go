package documents

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"family-finance-go/internal/domain/apperr"
	documentsdomain "family-finance-go/internal/domain/documents"
	commonhandler "family-finance-go/internal/transport/httpserver/handler/common"
	"family-finance-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

const (
	// multipartOverhead leaves room for the form fields around the file part.
	multipartOverhead = 1 << 20
	multipartMemory   = 8 << 20
)

type updateDocumentRequest struct {
	Name       *string                              `json:"name"`
	Type       *string                              `json:"type"`
	ExpiryDate commonhandler.OptionalNullableString `json:"expiry_date"`
}

type documentResponse struct {
	ID          string    `json:"id"`
	GroupID     string    `json:"group_id"`
	Name        string    `json:"name"`
	FileURL     string    `json:"file_url"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	Type        string    `json:"type"`
	ExpiryDate  *string   `json:"expiry_date"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

func (h *Handlers) ListDocuments(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	items, err := h.Documents.List(r.Context(), principal)
	if err != nil {
		h.fail(w, r, "documents.list", err)
		return
	}

	response := make([]documentResponse, 0, len(items))
	for i := range items {
		response = append(response, toDocumentResponse(&items[i]))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) GetDocument(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	item, err := h.Documents.Get(r.Context(), principal, chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "documents.get", err)
		return
	}

	writeJSON(w, http.StatusOK, toDocumentResponse(item))
}

func (h *Handlers) UploadDocument(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, documentsdomain.MaxUploadSize+multipartOverhead)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.fail(w, r, "documents.upload", apperr.Validation("file", "file size cannot exceed 10MB"))
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid multipart form")
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	input := documentsdomain.CreateInput{
		GroupID: r.FormValue("group_id"),
		Name:    r.FormValue("name"),
		Type:    documentsdomain.Type(strings.TrimSpace(r.FormValue("type"))),
	}

	expiry, err := commonhandler.ParseDateParam(r.FormValue("expiry_date"))
	if err != nil {
		h.fail(w, r, "documents.upload", apperr.Validation("expiry_date", "expected YYYY-MM-DD"))
		return
	}
	input.ExpiryDate = expiry

	file, header, err := r.FormFile("file")
	switch {
	case errors.Is(err, http.ErrMissingFile):
	case err != nil:
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid file part")
		return
	default:
		defer file.Close()
		input.File = documentsdomain.Upload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Body:        file,
		}
	}

	item, err := h.Documents.Create(r.Context(), principal, input)
	if err != nil {
		h.fail(w, r, "documents.upload", err)
		return
	}

	h.log.Info("documents.upload: stored", "document_id", item.ID, "group_id", item.GroupID, "size", item.Size)
	writeJSON(w, http.StatusCreated, toDocumentResponse(item))
}

func (h *Handlers) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req updateDocumentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	input := documentsdomain.UpdateInput{Name: req.Name}
	if req.Type != nil {
		documentType := documentsdomain.Type(*req.Type)
		input.Type = &documentType
	}
	if req.ExpiryDate.Set {
		input.ExpiryDate.Set = true
		if req.ExpiryDate.Value != nil {
			expiry, err := commonhandler.ParseDateParam(*req.ExpiryDate.Value)
			if err != nil {
				h.fail(w, r, "documents.update", apperr.Validation("expiry_date", "expected YYYY-MM-DD"))
				return
			}
			input.ExpiryDate.Value = expiry
		}
	}

	item, err := h.Documents.Update(r.Context(), principal, chi.URLParam(r, "id"), input)
	if err != nil {
		h.fail(w, r, "documents.update", err)
		return
	}

	writeJSON(w, http.StatusOK, toDocumentResponse(item))
}

func toDocumentResponse(item *documentsdomain.WithURL) documentResponse {
	return documentResponse{
		ID:          item.ID,
		GroupID:     item.GroupID,
		Name:        item.Name,
		FileURL:     item.URL,
		ContentType: item.ContentType,
		Size:        item.Size,
		Type:        string(item.Type),
		ExpiryDate:  commonhandler.FormatDate(item.ExpiryDate),
		UploadedAt:  item.UploadedAt.UTC(),
	}
}
