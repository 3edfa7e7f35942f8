package clients

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClientRedirectPolicy(t *testing.T) {
	hops := 0
	var ts *httptest.Server
	ts = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hops++
		http.Redirect(w, r, ts.URL+"/next", http.StatusFound)
	}))
	defer ts.Close()

	_, err := NewHTTPClient().Get(ts.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "attempted redirect")
	assert.Equal(t, 2, hops)
}
