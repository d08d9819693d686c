package cms_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/samir7888/hospital-cms-client/api"
	"github.com/samir7888/hospital-cms-client/cms"
	"github.com/samir7888/hospital-cms-client/query"
)

func setupResource(t *testing.T, handler http.Handler) (*cms.Resource[cms.Doctor], *query.Cache) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := api.New(server.URL)
	require.NoError(t, err)

	cache := query.NewCache()
	return cms.NewResource[cms.Doctor](client, cache, "doctors"), cache
}

func TestListDecodesPaginatedEnvelope(t *testing.T) {
	var gotQuery string
	doctors, _ := setupResource(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/doctors", r.URL.Path)
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"id": "d1", "firstName": "Asha", "lastName": "Shrestha", "specialization": "Gastroenterology"},
				{"id": "d2", "firstName": "Bikram", "lastName": "Rai", "specialization": "Hepatology"},
			},
			"meta": map[string]any{
				"page": 1, "take": 10, "itemCount": 12, "pageCount": 2,
				"hasPreviousPage": false, "hasNextPage": true,
			},
		})
	}))

	page, err := doctors.List(context.Background(), cms.ListParams{Page: 1, Take: 10})
	require.NoError(t, err)
	require.Equal(t, "page=1&take=10", gotQuery)

	require.Len(t, page.Data, 2)
	require.Equal(t, "Asha", page.Data[0].FirstName)
	require.Equal(t, 1, page.Meta.Page)
	require.Equal(t, 2, page.Meta.PageCount)
	require.True(t, page.Meta.HasNextPage)
	require.False(t, page.Meta.HasPreviousPage)
}

func TestGetFetchesDetailRecord(t *testing.T) {
	doctors, _ := setupResource(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/doctors/d1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"d1","firstName":"Asha","lastName":"Shrestha"}`))
	}))

	doctor, err := doctors.Get(context.Background(), "d1")
	require.NoError(t, err)
	require.Equal(t, "Shrestha", doctor.LastName)

	_, err = doctors.Get(context.Background(), "")
	require.Error(t, err)
}

// The edit screen doubles as the create screen; with no record id the
// detail query must stay quiet.
func TestDetailQueryWithoutIDNeverFetches(t *testing.T) {
	var calls atomic.Int32
	doctors, _ := setupResource(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))

	q := doctors.DetailQuery("")
	defer q.Close()

	data, err := q.Fetch(context.Background())
	require.NoError(t, err)
	require.Nil(t, data)
	require.Equal(t, int32(0), calls.Load())
}

func TestCreateInvalidatesActiveListQuery(t *testing.T) {
	var listCalls atomic.Int32
	doctors, _ := setupResource(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			listCalls.Add(1)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"data":[],"meta":{"page":1,"pageCount":1}}`))
		case http.MethodPost:
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"new-1","firstName":"Asha"}`))
		}
	}))

	listQuery := doctors.ListQuery(cms.ListParams{Page: 1})
	defer listQuery.Close()
	_, err := listQuery.Fetch(context.Background())
	require.NoError(t, err)
	require.Equal(t, int32(1), listCalls.Load())

	created, err := doctors.Create(context.Background(), cms.Doctor{FirstName: "Asha"})
	require.NoError(t, err)
	require.Equal(t, "new-1", created.ID)

	require.Eventually(t, func() bool {
		return listCalls.Load() == 2
	}, time.Second, 5*time.Millisecond)
}

func TestUpdateAndDeleteTargetRecordPath(t *testing.T) {
	var gotRequests []string
	doctors, _ := setupResource(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRequests = append(gotRequests, r.Method+" "+r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"d1"}`))
	}))

	_, err := doctors.Update(context.Background(), "d1", cms.Doctor{FirstName: "Asha"})
	require.NoError(t, err)
	require.NoError(t, doctors.Delete(context.Background(), "d1"))

	require.Equal(t, []string{"PATCH /doctors/d1", "DELETE /doctors/d1"}, gotRequests)

	_, err = doctors.Update(context.Background(), "", cms.Doctor{})
	require.Error(t, err)
	require.Error(t, doctors.Delete(context.Background(), ""))
}

func TestSingletonGetAndUpdate(t *testing.T) {
	var gotRequests []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRequests = append(gotRequests, r.Method+" "+r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"City Gastro Hospital","phone":"+977-1-5555555"}`))
	}))
	t.Cleanup(server.Close)

	client, err := api.New(server.URL)
	require.NoError(t, err)
	info := cms.NewSingleton[cms.CompanyInfo](client, query.NewCache(), "company-info")

	record, err := info.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, "City Gastro Hospital", record.Name)

	record.Phone = "+977-1-4444444"
	_, err = info.Update(context.Background(), *record)
	require.NoError(t, err)

	require.Equal(t, []string{"GET /company-info", "PATCH /company-info"}, gotRequests)
}
