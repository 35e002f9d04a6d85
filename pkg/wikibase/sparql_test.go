package wikibase

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

// newTestSPARQLClient builds a client against the given test server with
// rate limiting disabled.
func newTestSPARQLClient(serverURL string) *SPARQLClient {
	config := DefaultSPARQLConfig()
	config.Endpoint = serverURL
	config.RequestInterval = 0
	return NewSPARQLClient(config)
}

func TestSPARQLQueryDecodesBindings(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Method: got %s, want POST", r.Method)
		}
		if got := r.Header.Get("Accept"); got != "application/sparql-results+json" {
			t.Errorf("Accept: got %q", got)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm failed: %v", err)
		}
		if r.PostForm.Get("query") == "" {
			t.Error("Expected query form field")
		}

		w.Header().Set("Content-Type", "application/sparql-results+json")
		w.Write([]byte(`{
			"results": {
				"bindings": [
					{
						"item": {"type": "uri", "value": "http://www.wikidata.org/entity/Q123"},
						"title": {"type": "literal", "value": "NJA 2019 s. 45", "xml:lang": "sv"}
					}
				]
			}
		}`))
	}))
	defer server.Close()

	sparqlClient := newTestSPARQLClient(server.URL)

	bindings, err := sparqlClient.Query(context.Background(), `SELECT ?item WHERE { ?item ?p ?o }`)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(bindings) != 1 {
		t.Fatalf("Expected 1 binding, got %d", len(bindings))
	}
	if got := bindings[0]["item"].Value; got != "http://www.wikidata.org/entity/Q123" {
		t.Errorf("item: got %q", got)
	}
	if got := bindings[0]["title"].Language; got != "sv" {
		t.Errorf("title language: got %q, want sv", got)
	}
}

func TestSPARQLQueryEmptyResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": {"bindings": []}}`))
	}))
	defer server.Close()

	sparqlClient := newTestSPARQLClient(server.URL)

	bindings, err := sparqlClient.Query(context.Background(), `SELECT * WHERE {}`)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(bindings) != 0 {
		t.Errorf("Expected no bindings, got %d", len(bindings))
	}
}

func TestSPARQLQueryEndpointError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "query timed out", http.StatusInternalServerError)
	}))
	defer server.Close()

	sparqlClient := newTestSPARQLClient(server.URL)

	if _, err := sparqlClient.Query(context.Background(), `SELECT * WHERE {}`); err == nil {
		t.Fatal("Expected error for HTTP 500")
	}
}

func TestSPARQLQueryMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	sparqlClient := newTestSPARQLClient(server.URL)

	if _, err := sparqlClient.Query(context.Background(), `SELECT * WHERE {}`); err == nil {
		t.Fatal("Expected error for malformed response body")
	}
}

func TestSPARQLQueryUnreachableEndpoint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	serverURL := server.URL
	server.Close()

	sparqlClient := newTestSPARQLClient(serverURL)

	if _, err := sparqlClient.Query(context.Background(), `SELECT * WHERE {}`); err == nil {
		t.Fatal("Expected error for unreachable endpoint")
	}
}

func TestItemIDFromURI(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{uri: "http://www.wikidata.org/entity/Q123", want: "Q123"},
		{uri: "Q123", want: "Q123"},
		{uri: "", want: ""},
	}

	for _, test := range tests {
		if got := ItemIDFromURI(test.uri); got != test.want {
			t.Errorf("ItemIDFromURI(%q): got %q, want %q", test.uri, got, test.want)
		}
	}
}
