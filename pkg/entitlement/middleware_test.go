package entitlement_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tapmenu/tapmenu/pkg/entitlement"
)

func orgFromHeader(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(r.Header.Get("X-Org-ID"))
}

func countFromHeader(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.Header.Get("X-Item-Count"), 10, 64)
}

func okHandler() (http.Handler, *bool) {
	called := new(bool)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusCreated)
	}), called
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRequireCapacity(t *testing.T) {
	t.Parallel()

	t.Run("passes through when capacity remains", func(t *testing.T) {
		t.Parallel()

		orgID := uuid.New()
		svc := newTestService(orgID, 10)
		next, called := okHandler()
		h := entitlement.RequireCapacity(svc, entitlement.CapMaxProducts, entitlement.KindProducts, orgFromHeader)(next)

		req := httptest.NewRequest(http.MethodPost, "/products", nil)
		req.Header.Set("X-Org-ID", orgID.String())
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.True(t, *called)
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("denies with decision body at limit", func(t *testing.T) {
		t.Parallel()

		orgID := uuid.New()
		svc := newTestService(orgID, 20)
		next, called := okHandler()
		h := entitlement.RequireCapacity(svc, entitlement.CapMaxProducts, entitlement.KindProducts, orgFromHeader)(next)

		req := httptest.NewRequest(http.MethodPost, "/products", nil)
		req.Header.Set("X-Org-ID", orgID.String())
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.False(t, *called)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		var result entitlement.LimitCheckResult
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
		assert.False(t, result.CanAdd)
		assert.NotEmpty(t, result.Message)
	})

	t.Run("bad org resolves to client error", func(t *testing.T) {
		t.Parallel()

		svc := newTestService(uuid.New(), 0)
		next, called := okHandler()
		h := entitlement.RequireCapacity(svc, entitlement.CapMaxProducts, entitlement.KindProducts, orgFromHeader)(next)

		req := httptest.NewRequest(http.MethodPost, "/products", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.False(t, *called)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("store failure yields internal error without detail", func(t *testing.T) {
		t.Parallel()

		orgID := uuid.New()
		ents := entitlement.NewMemoryEntitlementStore()
		ents.SetPlan(orgID, proPlan(orgID))
		counters := entitlement.NewRegistry()
		counters.Register(entitlement.KindProducts, func(ctx context.Context, orgID uuid.UUID) (int64, error) {
			return 0, errors.New("connection refused to 10.0.0.5:5432")
		})
		svc := entitlement.NewService(
			entitlement.NewResolver(entitlement.NewMemoryOverrideStore(), ents), counters)
		next, called := okHandler()
		h := entitlement.RequireCapacity(svc, entitlement.CapMaxProducts, entitlement.KindProducts, orgFromHeader,
			entitlement.WithGuardLogger(discardLogger()))(next)

		req := httptest.NewRequest(http.MethodPost, "/products", nil)
		req.Header.Set("X-Org-ID", orgID.String())
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.False(t, *called)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "10.0.0.5")
	})
}

func TestRequireBulkCapacity(t *testing.T) {
	t.Parallel()

	t.Run("passes a bulk import that fits", func(t *testing.T) {
		t.Parallel()

		orgID := uuid.New()
		svc := newTestService(orgID, 10)
		next, called := okHandler()
		h := entitlement.RequireBulkCapacity(svc, entitlement.CapMaxProducts, entitlement.KindProducts, orgFromHeader, countFromHeader)(next)

		req := httptest.NewRequest(http.MethodPost, "/products/import", nil)
		req.Header.Set("X-Org-ID", orgID.String())
		req.Header.Set("X-Item-Count", "10")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.True(t, *called)
	})

	t.Run("denies a bulk import that does not fit", func(t *testing.T) {
		t.Parallel()

		orgID := uuid.New()
		svc := newTestService(orgID, 10)
		next, called := okHandler()
		h := entitlement.RequireBulkCapacity(svc, entitlement.CapMaxProducts, entitlement.KindProducts, orgFromHeader, countFromHeader)(next)

		req := httptest.NewRequest(http.MethodPost, "/products/import", nil)
		req.Header.Set("X-Org-ID", orgID.String())
		req.Header.Set("X-Item-Count", "11")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.False(t, *called)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("invalid count is a client error, not a quota denial", func(t *testing.T) {
		t.Parallel()

		orgID := uuid.New()
		svc := newTestService(orgID, 10)
		next, _ := okHandler()
		h := entitlement.RequireBulkCapacity(svc, entitlement.CapMaxProducts, entitlement.KindProducts, orgFromHeader, countFromHeader)(next)

		for _, count := range []string{"0", "-3", "many"} {
			req := httptest.NewRequest(http.MethodPost, "/products/import", nil)
			req.Header.Set("X-Org-ID", orgID.String())
			req.Header.Set("X-Item-Count", count)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code, "count=%s", count)
		}
	})
}
