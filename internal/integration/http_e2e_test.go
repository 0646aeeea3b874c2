//go:build integration || !unit

package integration

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/rs/zerolog"

	server "horizon_web/internal/adapters/http_server"
	"horizon_web/internal/adapters/notify"
	"horizon_web/internal/adapters/places"
	redisad "horizon_web/internal/adapters/redis"
	"horizon_web/internal/app"
	"horizon_web/internal/domain"
	mysqlrepo "horizon_web/internal/storage/mysql"
)

// ---------- helpers ----------
func migrationsDir() string {
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return v
	}
	return filepath.Join("..", "..", "migrations")
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := migrationsDir()
	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir %s: %v", dir, err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)
	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("dockertest: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("docker not reachable: %v", err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env:        []string{"MYSQL_ROOT_PASSWORD=root", "MYSQL_DATABASE=horizon"},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/horizon?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		resource.GetPort("3306/tcp"))
	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	applyMigrations(t, db)
	return db
}

// ---------- the test ----------
func TestHTTP_EndToEnd_QuoteAndReviews(t *testing.T) {
	db := startMySQL(t)
	log := zerolog.Nop()

	// Places stub and a Redis-backed snapshot
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"OK","result":{"reviews":[{"author_name":"Ana","rating":5,"text":"Lovely"}]}}`))
	}))
	defer upstream.Close()
	mr := miniredis.RunT(t)
	store := redisad.New(mr.Addr(), "", 0, redisad.DefaultKey)
	defer store.Close()

	policy := app.NewCachePolicy(store, app.CacheDuration, log)
	fetcher := app.NewFetcher(places.New(upstream.URL, 10), store, nil, log)
	acq := app.NewAcquirer(policy, fetcher, app.NewFallback(nil), nil, log)
	quotes := app.NewQuoteService(mysqlrepo.New(db), notify.NewLogNotifier("hello@horizon.example", log), nil, log)

	srv := server.New()
	srv.MountHandlers(&server.Handlers{
		Acq:      acq,
		Reviews:  app.Settings{PlaceID: "p1", APIKey: "k1"},
		Quotes:   quotes,
		Throttle: app.NewThrottle(5, time.Minute, nil),
	})
	ts := httptest.NewServer(srv.Mux())
	defer ts.Close()

	// reviews come back live and land in Redis
	res, err := http.Get(ts.URL + "/v1/reviews")
	if err != nil {
		t.Fatalf("GET reviews: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("reviews status %d", res.StatusCode)
	}
	if !mr.Exists(redisad.DefaultKey) {
		t.Fatal("snapshot not written to redis")
	}

	// submit and read back a quote
	in := app.QuoteInput{
		Name:               "Thandi Nkosi",
		Email:              "thandi@example.co.za",
		Phone:              "082 555 0101",
		Service:            "Google Ads Management",
		BudgetRange:        "R5,000 - R10,000",
		ProjectDescription: "Search campaign for a new product launch in Durban.",
	}
	b, _ := json.Marshal(in)
	res, err = http.Post(ts.URL+"/v1/quotes", "application/json", bytes.NewReader(b))
	if err != nil {
		t.Fatalf("POST quote: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create status %d", res.StatusCode)
	}
	var created domain.QuoteRequest
	if err := json.NewDecoder(res.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	res2, err := http.Get(ts.URL + "/v1/quotes/" + created.ID)
	if err != nil {
		t.Fatalf("GET quote: %v", err)
	}
	defer res2.Body.Close()
	if res2.StatusCode != http.StatusOK {
		t.Fatalf("get status %d", res2.StatusCode)
	}
	var body domain.QuoteRequest
	if err := json.NewDecoder(res2.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.ID != created.ID || body.Service != in.Service || body.Status != domain.QuotePending {
		t.Fatalf("unexpected body: %+v", body)
	}
}
