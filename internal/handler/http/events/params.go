package events

import (
	"errors"
	"net/http"
	"strconv"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// pageParams is the offset-based pagination params shared by every list
// endpoint here (§4.8 contract: limit <= 100, filters applied before
// pagination).
type pageParams struct {
	Limit  int
	Offset int
}

func parsePageParams(r *http.Request) (pageParams, error) {
	params := pageParams{Limit: defaultLimit, Offset: 0}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 || limit > maxLimit {
			return params, errors.New("limit must be an integer between 1 and 100")
		}
		params.Limit = limit
	}

	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			return params, errors.New("offset must be a non-negative integer")
		}
		params.Offset = offset
	}

	return params, nil
}

func parseBoolParam(r *http.Request, name string) bool {
	v := r.URL.Query().Get(name)
	parsed, _ := strconv.ParseBool(v)
	return parsed
}

func parseIntParam(r *http.Request, name string, fallback int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.New(name + " must be an integer")
	}
	return n, nil
}
