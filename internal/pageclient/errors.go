package pageclient

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/starford/cosense-mcp/internal/apperr"
	"github.com/starford/cosense-mcp/internal/cosense"
)

// mapCosenseError maps structured REST failures by their error name.
func mapCosenseError(err error) *apperr.Error {
	var rerr *cosense.RemoteError
	if !errors.As(err, &rerr) {
		return apperr.New(apperr.KindUnknown, err.Error())
	}

	switch rerr.Name {
	case "NotFoundError":
		return apperr.New(apperr.KindNotFound, orDefault(rerr.Message, "Page or project not found"))
	case "NotLoggedInError":
		return apperr.New(apperr.KindUnauthorized, orDefault(rerr.Message, "Not logged in"))
	case "NotMemberError":
		return apperr.New(apperr.KindForbidden, orDefault(rerr.Message, "Not a member of this project"))
	default:
		return apperr.New(apperr.KindUnknown, orDefault(rerr.Message, rerr.Name))
	}
}

// mapPushError maps failures of the commit channel. The remote reports them as free
// text; anything else reaching here was raised locally, possibly via panic.
func mapPushError(v any) *apperr.Error {
	var text string
	switch e := v.(type) {
	case string:
		text = e
	case cosense.PushError:
		text = string(e)
	case error:
		var perr cosense.PushError
		if !errors.As(e, &perr) {
			return apperr.New(apperr.KindUnknown, e.Error())
		}
		text = string(perr)
	case nil:
		return apperr.New(apperr.KindUnknown, "Unknown error")
	default:
		return apperr.New(apperr.KindUnknown, stringify(e))
	}

	switch {
	case strings.Contains(text, "Unauthorized") || strings.Contains(text, "401"):
		return apperr.New(apperr.KindUnauthorized, "Invalid or expired cookie")
	case strings.Contains(text, "NotFoundError") || strings.Contains(text, "404"):
		return apperr.New(apperr.KindNotFound, "Page not found")
	case strings.Contains(text, "DuplicateTitleError"):
		return apperr.New(apperr.KindConflict, "Page title already exists")
	default:
		return apperr.New(apperr.KindUnknown, text)
	}
}

func stringify(v any) string {
	b, err := json.Marshal(v)
	if err != nil || string(b) == "null" {
		return "Unknown error"
	}
	return string(b)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
