package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWithIdentity(t *testing.T) {
	var got Identity
	var present bool
	handler := WithIdentity(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, present = GetIdentity(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderEmployeeID, " emp-7 ")
	req.Header.Set(HeaderRole, "manager")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !present {
		t.Fatal("identity missing from context")
	}
	if got.EmployeeID != "emp-7" || got.Role != "manager" {
		t.Fatalf("identity = %+v", got)
	}
}

func TestWithIdentityAnonymous(t *testing.T) {
	handler := WithIdentity(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetIdentity(r.Context()); ok {
			t.Error("anonymous request must not carry an identity")
		}
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
}

func TestRequireIdentity(t *testing.T) {
	var called bool
	handler := WithIdentity(RequireIdentity(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	if called {
		t.Fatal("handler ran without an identity")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set(HeaderEmployeeID, "emp-1")
	handler.ServeHTTP(rec, req)
	if !called {
		t.Fatal("handler did not run with an identity present")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}
