// Package gatewaytest provides an in-memory storage gateway for tests.
//
// The server speaks the same JSON routes as the real gateway and hands out
// presigned S3-style URLs from /get that point back at itself, so a full
// upload/download round trip can run against httptest.
package gatewaytest

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-chi/chi/v5"

	"github.com/sagarc03/mydropbox"
	"github.com/sagarc03/mydropbox/gateway"
)

// Bucket is the bucket name used in presigned file URLs.
const Bucket = "mydropbox-files"

// LastModifiedFormat matches the timestamp layout of the real gateway listing.
const LastModifiedFormat = "2006-01-02 15:04:05+00:00"

// Call is a request recorded by the server.
type Call struct {
	Method string
	Route  string
	Body   []byte
	Header http.Header
}

// Decode unmarshals the recorded body into v.
func (c Call) Decode(v any) error {
	return json.Unmarshal(c.Body, v)
}

type object struct {
	data     []byte
	modified time.Time
}

type share struct {
	owner    string
	fileName string
}

// Server is a fake gateway backed by maps.
type Server struct {
	*httptest.Server

	Prefix string

	mu        sync.Mutex
	users     map[string]string
	files     map[string]map[string]object
	shares    map[string][]share
	loggedIn  string
	calls     []Call
	overrides map[string]http.HandlerFunc
	presign   *s3.PresignClient
}

// New starts a fake gateway mounted under gateway.DefaultAPIPrefix.
// The server is closed when the test ends.
func New(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		Prefix:    gateway.DefaultAPIPrefix,
		users:     make(map[string]string),
		files:     make(map[string]map[string]object),
		shares:    make(map[string][]share),
		overrides: make(map[string]http.HandlerFunc),
	}

	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)

	client := s3.New(s3.Options{
		Region:       Region,
		Credentials:  credentials.NewStaticCredentialsProvider(AccessKey, SecretKey, ""),
		BaseEndpoint: aws.String(s.URL),
		UsePathStyle: true,
	})
	s.presign = s3.NewPresignClient(client)

	return s
}

// Config returns a client config pointing at the server.
func (s *Server) Config() *gateway.Config {
	return &gateway.Config{
		Endpoint:  s.URL,
		APIPrefix: s.Prefix,
	}
}

// Client returns a gateway client pointing at the server.
func (s *Server) Client(t testing.TB, opts ...gateway.Option) *gateway.Client {
	t.Helper()
	c, err := gateway.New(s.Config(), opts...)
	if err != nil {
		t.Fatalf("gatewaytest: new client: %v", err)
	}
	return c
}

// AddUser registers username with the digest of secret.
func (s *Server) AddUser(username, secret string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[username] = mydropbox.HashSecret(secret)
}

// AddFile stores data as owner's fileName.
func (s *Server) AddFile(owner, fileName string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putLocked(owner, fileName, data)
}

// File returns the stored bytes of owner's fileName.
func (s *Server) File(owner, fileName string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.files[owner][fileName]
	return obj.data, ok
}

// Override replaces the handler of method and route, e.g. ("GET", "/get").
func (s *Server) Override(method, route string, h http.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[method+" "+route] = h
}

// Calls returns the API requests received so far. Object downloads are not recorded.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CallCount returns how many API requests hit route.
func (s *Server) CallCount(route string) int {
	n := 0
	for _, c := range s.Calls() {
		if c.Route == route {
			n++
		}
	}
	return n
}

// LastCall returns the most recent request to route.
func (s *Server) LastCall(route string) (Call, bool) {
	calls := s.Calls()
	for i := len(calls) - 1; i >= 0; i-- {
		if calls[i].Route == route {
			return calls[i], true
		}
	}
	return Call{}, false
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Route(s.Prefix, func(r chi.Router) {
		r.Use(s.record)
		r.Post(gateway.RouteRegister, s.handleRegister)
		r.Post(gateway.RouteLogin, s.handleLogin)
		r.Post(gateway.RouteLogout, s.handleLogout)
		r.Get(gateway.RouteView, s.handleView)
		r.Put(gateway.RoutePut, s.handlePut)
		r.Get(gateway.RouteGet, s.handleGet)
		r.Post(gateway.RouteShare, s.handleShare)
	})

	r.Get("/"+Bucket+"/*", s.handleObject)

	return r
}

// record stores the request and dispatches to an override when one is set.
func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = r.Body.Close()
		r.Body = io.NopCloser(bytes.NewReader(body))

		route := strings.TrimPrefix(r.URL.Path, s.Prefix)

		s.mu.Lock()
		s.calls = append(s.calls, Call{
			Method: r.Method,
			Route:  route,
			Body:   body,
			Header: r.Header.Clone(),
		})
		override := s.overrides[r.Method+" "+route]
		s.mu.Unlock()

		if override != nil {
			override(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var cred mydropbox.Credential
	if !decode(w, r, &cred) {
		return
	}
	if cred.Username == "" || cred.PasswordHash == "" {
		WriteError(w, http.StatusBadRequest, "username and passwordHash are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[cred.Username]; exists {
		WriteError(w, http.StatusConflict, "user already exists")
		return
	}
	s.users[cred.Username] = cred.PasswordHash

	WriteJSON(w, http.StatusOK, map[string]string{"message": "user created"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var cred mydropbox.Credential
	if !decode(w, r, &cred) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	hash, ok := s.users[cred.Username]
	if !ok || hash != cred.PasswordHash {
		WriteError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}
	s.loggedIn = cred.Username

	WriteJSON(w, http.StatusOK, map[string]string{"message": "login successful"})
}

func (s *Server) handleLogout(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	s.loggedIn = ""
	s.mu.Unlock()

	WriteJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Owner string `json:"owner"`
	}
	if !decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	files := make([]mydropbox.FileRecord, 0)
	for name, obj := range s.files[req.Owner] {
		files = append(files, fileRecord(req.Owner, name, obj))
	}
	for _, sh := range s.shares[req.Owner] {
		if obj, ok := s.files[sh.owner][sh.fileName]; ok {
			files = append(files, fileRecord(sh.owner, sh.fileName, obj))
		}
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].Key < files[j].Key
	})

	WriteJSON(w, http.StatusOK, map[string]any{"files": files})
}

func (s *Server) handlePut(w http.ResponseWriter, r *http.Request) {
	var req mydropbox.PutFileRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Owner == "" || req.FileName == "" {
		WriteError(w, http.StatusBadRequest, "owner and file_name are required")
		return
	}

	data, err := base64.StdEncoding.DecodeString(req.Content)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "file must be base64")
		return
	}

	s.mu.Lock()
	s.putLocked(req.Owner, req.FileName, data)
	s.mu.Unlock()

	WriteJSON(w, http.StatusOK, map[string]string{"message": "file uploaded"})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Owner    string `json:"owner"`
		FileName string `json:"file_name"`
	}
	if !decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	_, ok := s.files[req.Owner][req.FileName]
	s.mu.Unlock()

	if !ok {
		WriteError(w, http.StatusNotFound, "file not found")
		return
	}

	presigned, err := s.presign.PresignGetObject(r.Context(), &s3.GetObjectInput{
		Bucket: aws.String(Bucket),
		Key:    aws.String(req.Owner + "/" + req.FileName),
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"file_url": presigned.URL})
}

func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	var req mydropbox.ShareRequest
	if !decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.files[s.loggedIn][req.FileName]; !ok {
		WriteError(w, http.StatusForbidden, "file not owned by caller")
		return
	}
	if _, ok := s.users[req.Recipient]; !ok {
		WriteError(w, http.StatusNotFound, "recipient not found")
		return
	}
	s.shares[req.Recipient] = append(s.shares[req.Recipient], share{owner: s.loggedIn, fileName: req.FileName})

	WriteJSON(w, http.StatusOK, map[string]string{"message": "file shared"})
}

// handleObject serves presigned object downloads.
func (s *Server) handleObject(w http.ResponseWriter, r *http.Request) {
	if err := verifyPresigned(r); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}

	owner, fileName, ok := strings.Cut(chi.URLParam(r, "*"), "/")
	if !ok {
		http.NotFound(w, r)
		return
	}

	s.mu.Lock()
	obj, found := s.files[owner][fileName]
	s.mu.Unlock()

	if !found {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(obj.data)
}

func (s *Server) putLocked(owner, fileName string, data []byte) {
	if s.files[owner] == nil {
		s.files[owner] = make(map[string]object)
	}
	s.files[owner][fileName] = object{
		data:     append([]byte(nil), data...),
		modified: time.Now().UTC(),
	}
}

func fileRecord(owner, fileName string, obj object) mydropbox.FileRecord {
	return mydropbox.FileRecord{
		Key:          owner + "/" + fileName,
		Size:         int64(len(obj.data)),
		LastModified: obj.modified.Format(LastModifiedFormat),
		Owner:        owner,
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// WriteJSON writes a JSON response.
func WriteJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError writes a JSON error response in the gateway's format.
func WriteError(w http.ResponseWriter, code int, message string) {
	WriteJSON(w, code, map[string]string{"message": message})
}
