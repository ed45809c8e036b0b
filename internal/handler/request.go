package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"go-conference-manager/internal/model"
	"go-conference-manager/pkg/apierror"
)

const maxBodyBytes = 1 << 20

var validate = validator.New(validator.WithRequiredStructEnabled())

// decodeJSON reads a single JSON object into dst and runs struct validation.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	defer r.Body.Close()

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apierror.BadRequest("request body is required", "")
		}
		return apierror.BadRequest("invalid JSON body", err.Error())
	}

	return validateStruct(dst)
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apierror.BadRequest("invalid request", err.Error())
	}

	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag()))
	}

	return apierror.Validation(strings.Join(fields, "; "))
}

func parseID(r *http.Request, param string) (int64, error) {
	raw := strings.TrimSpace(chi.URLParam(r, param))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apierror.BadRequest(param+" must be a positive integer", raw)
	}
	return id, nil
}

// parsePage reads skip/limit. Negative skip or non-positive limit is rejected;
// limit above the maximum is clamped.
func parsePage(r *http.Request) (model.Page, error) {
	query := r.URL.Query()

	skip, err := parseIntParam(query.Get("skip"), 0)
	if err != nil || skip < 0 {
		return model.Page{}, apierror.BadRequest("skip must be a non-negative integer", query.Get("skip"))
	}

	limit, err := parseIntParam(query.Get("limit"), model.DefaultPageLimit)
	if err != nil || limit <= 0 {
		return model.Page{}, apierror.BadRequest("limit must be a positive integer", query.Get("limit"))
	}

	return model.Page{Skip: skip, Limit: limit}.Normalize(), nil
}

func parseIntParam(raw string, fallback int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}

func pageMeta(page model.Page) *model.Meta {
	return &model.Meta{Skip: page.Skip, Limit: page.Limit}
}
