package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sheetServer(t *testing.T, rows []map[string]string, appended *[]map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "users", r.URL.Query().Get("sheet"))
		w.Header().Set("Content-Type", "application/json")

		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(map[string]any{"status": "success", "data": rows})
		case http.MethodPost:
			var row map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&row))
			*appended = append(*appended, row)
			json.NewEncoder(w).Encode(map[string]any{"status": "success"})
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
}

func TestFindByEmail(t *testing.T) {
	rows := []map[string]string{
		{"Name": "Asha", "Email": "Asha@Example.Com", "Password_Hash": "h1", "Created_At": "2026-01-02 10:00"},
		{"Name": "Ravi", "Email": "ravi@example.com", "Password_Hash": "h2", "Created_At": "2026-01-03 11:00"},
	}
	server := sheetServer(t, rows, nil)
	defer server.Close()

	users := NewUsers(NewClient(server.URL))

	// mixed-case and padded lookups resolve to the same record
	for _, q := range []string{"asha@example.com", "ASHA@EXAMPLE.COM", "  Asha@Example.Com "} {
		record, err := users.FindByEmail(context.Background(), q)
		require.NoError(t, err)
		require.NotNil(t, record, "lookup %q", q)
		assert.Equal(t, "Asha", record.Name)
		assert.Equal(t, "asha@example.com", record.Email)
		assert.Equal(t, "h1", record.PasswordHash)
	}

	record, err := users.FindByEmail(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestFindByEmailStoreFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"status": "error"})
	}))
	defer server.Close()

	users := NewUsers(NewClient(server.URL))

	// a failing store is an error, not an empty result
	record, err := users.FindByEmail(context.Background(), "asha@example.com")
	assert.Error(t, err)
	assert.Nil(t, record)
}

func TestFindByEmailTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	users := NewUsers(NewClient(server.URL))

	_, err := users.FindByEmail(context.Background(), "asha@example.com")
	assert.Error(t, err)
}

func TestCreate(t *testing.T) {
	var appended []map[string]string
	server := sheetServer(t, nil, &appended)
	defer server.Close()

	users := NewUsers(NewClient(server.URL))

	err := users.Create(context.Background(), UserRecord{
		Name:         "Asha",
		Email:        "asha@example.com",
		PasswordHash: "h1",
	})
	require.NoError(t, err)

	require.Len(t, appended, 1)
	assert.Equal(t, "Asha", appended[0]["Name"])
	assert.Equal(t, "asha@example.com", appended[0]["Email"])
	assert.Equal(t, "h1", appended[0]["Password_Hash"])
	assert.NotEmpty(t, appended[0]["Created_At"])
}

func TestRowsRejectsHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := NewClient(server.URL).Rows(context.Background(), "users")
	assert.Error(t, err)
}
