package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-threads-autoreply/internal/domain"
	"github.com/tbourn/go-threads-autoreply/internal/services"
)

func ruleRouter(h *Handlers) *gin.Engine {
	r := gin.New()
	r.POST("/rules", h.CreateRule)
	r.GET("/rules", h.ListRules)
	r.PUT("/rules/:id", h.UpdateRule)
	r.DELETE("/rules/:id", h.DeleteRule)
	return r
}

func TestCreateRule(t *testing.T) {
	s := newStubSet()
	s.rules.created = &domain.AutoReplyRule{ID: testUUID, Name: "Pricing"}
	r := ruleRouter(newTestHandlers(s))

	body := `{
		"name": "Pricing",
		"trigger_keywords": ["price", "cost"],
		"custom_reply_text": "DM us for pricing",
		"delay_minutes": 5,
		"max_replies_per_day": 10,
		"threads_account_id": "` + testUUID + `"
	}`
	w := perform(r, http.MethodPost, "/rules", body, map[string]string{"X-User-ID": "u1"})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	in := s.rules.gotCreate
	if in.Name != "Pricing" || len(in.TriggerKeywords) != 2 || in.TriggerKeywords[1] != "cost" {
		t.Fatalf("payload not mapped: %+v", in)
	}
	if in.CustomReplyText == nil || *in.CustomReplyText != "DM us for pricing" || in.ReplyTemplateID != nil {
		t.Fatalf("reply source not mapped: %+v", in)
	}
	if in.DelayMinutes != 5 || in.MaxRepliesPerDay != 10 || in.ThreadsAccountID != testUUID {
		t.Fatalf("payload not mapped: %+v", in)
	}
	if s.rules.gotUser != "u1" {
		t.Fatalf("user = %q", s.rules.gotUser)
	}

	var rule domain.AutoReplyRule
	if err := json.Unmarshal(w.Body.Bytes(), &rule); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rule.ID != testUUID {
		t.Fatalf("unexpected rule: %+v", rule)
	}
}

func TestCreateRule_InvalidJSON(t *testing.T) {
	s := newStubSet()
	r := ruleRouter(newTestHandlers(s))
	w := perform(r, http.MethodPost, "/rules", `{"name":`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	mustContain(t, w.Body.String(), "invalid JSON body")
}

func TestCreateRule_ErrorMapping(t *testing.T) {
	valid := `{"name":"n","trigger_keywords":["k"],"custom_reply_text":"x","threads_account_id":"` + testUUID + `"}`
	cases := []struct {
		name     string
		err      error
		status   int
		wantCode string
	}{
		{"empty name", services.ErrEmptyName, http.StatusBadRequest, ErrCodeBadRequest},
		{"no keywords", services.ErrNoKeywords, http.StatusBadRequest, ErrCodeBadRequest},
		{"bad reply source", services.ErrInvalidReplySource, http.StatusBadRequest, ErrCodeBadRequest},
		{"bad delay", services.ErrInvalidDelay, http.StatusBadRequest, ErrCodeBadRequest},
		{"bad daily cap", services.ErrInvalidDailyCap, http.StatusBadRequest, ErrCodeBadRequest},
		{"account missing", services.ErrAccountNotFound, http.StatusNotFound, ErrCodeNotFound},
		{"template missing", services.ErrTemplateNotFound, http.StatusNotFound, ErrCodeNotFound},
		{"storage failure", errors.New("db down"), http.StatusInternalServerError, ErrCodeCreateFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newStubSet()
			s.rules.createErr = tc.err
			r := ruleRouter(newTestHandlers(s))
			w := perform(r, http.MethodPost, "/rules", valid, nil)
			if w.Code != tc.status {
				t.Fatalf("status = %d, want %d", w.Code, tc.status)
			}
			mustContain(t, w.Body.String(), tc.wantCode)
		})
	}
}

func TestListRules(t *testing.T) {
	s := newStubSet()
	s.rules.rules = []domain.AutoReplyRule{{ID: testUUID, Name: "Pricing"}}
	r := ruleRouter(newTestHandlers(s))

	w := perform(r, http.MethodGet, "/rules", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp ListRulesResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Rules) != 1 || resp.Rules[0].Name != "Pricing" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestListRules_EmptyIsArrayNotNull(t *testing.T) {
	s := newStubSet()
	r := ruleRouter(newTestHandlers(s))
	w := perform(r, http.MethodGet, "/rules", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	mustContain(t, w.Body.String(), `"rules":[]`)
}

func TestUpdateRule(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		s := newStubSet()
		r := ruleRouter(newTestHandlers(s))
		w := perform(r, http.MethodPut, "/rules/"+testUUID, `{"name":"Renamed","is_active":false}`, nil)
		if w.Code != http.StatusNoContent {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
		if s.rules.gotRuleID != testUUID {
			t.Fatalf("rule id = %q", s.rules.gotRuleID)
		}
		in := s.rules.gotUpdate
		if in.Name == nil || *in.Name != "Renamed" || in.IsActive == nil || *in.IsActive {
			t.Fatalf("changes not mapped: %+v", in)
		}
		if in.TriggerKeywords != nil || in.DelayMinutes != nil {
			t.Fatalf("absent fields must stay nil: %+v", in)
		}
	})

	t.Run("malformed id", func(t *testing.T) {
		s := newStubSet()
		r := ruleRouter(newTestHandlers(s))
		w := perform(r, http.MethodPut, "/rules/nope", `{}`, nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", w.Code)
		}
		mustContain(t, w.Body.String(), "rule id must be a UUID")
	})

	t.Run("invalid JSON", func(t *testing.T) {
		s := newStubSet()
		r := ruleRouter(newTestHandlers(s))
		w := perform(r, http.MethodPut, "/rules/"+testUUID, `{`, nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", w.Code)
		}
	})

	t.Run("not found", func(t *testing.T) {
		s := newStubSet()
		s.rules.updateErr = services.ErrRuleNotFound
		r := ruleRouter(newTestHandlers(s))
		w := perform(r, http.MethodPut, "/rules/"+testUUID, `{}`, nil)
		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d", w.Code)
		}
		mustContain(t, w.Body.String(), "rule not found")
	})

	t.Run("validation error", func(t *testing.T) {
		s := newStubSet()
		s.rules.updateErr = services.ErrNoKeywords
		r := ruleRouter(newTestHandlers(s))
		w := perform(r, http.MethodPut, "/rules/"+testUUID, `{"trigger_keywords":[]}`, nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", w.Code)
		}
	})
}

func TestDeleteRule(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		s := newStubSet()
		r := ruleRouter(newTestHandlers(s))
		w := perform(r, http.MethodDelete, "/rules/"+testUUID, "", nil)
		if w.Code != http.StatusNoContent {
			t.Fatalf("status = %d", w.Code)
		}
	})

	t.Run("not found", func(t *testing.T) {
		s := newStubSet()
		s.rules.deleteErr = services.ErrRuleNotFound
		r := ruleRouter(newTestHandlers(s))
		w := perform(r, http.MethodDelete, "/rules/"+testUUID, "", nil)
		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d", w.Code)
		}
	})

	t.Run("malformed id", func(t *testing.T) {
		s := newStubSet()
		r := ruleRouter(newTestHandlers(s))
		w := perform(r, http.MethodDelete, "/rules/nope", "", nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", w.Code)
		}
	})
}
