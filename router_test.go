package main

import (
	"errors"
	"strconv"
	"strings"
	"testing"
	"testing/fstest"
)

var testDocs = fstest.MapFS{
	"index.html":             {Data: []byte("<h1>home</h1>")},
	"user/form.html":         {Data: []byte("<form></form>")},
	"user/login.html":        {Data: []byte("<h1>login</h1>")},
	"user/login_failed.html": {Data: []byte("<h1>failed</h1>")},
	"user/list.html":         {Data: []byte("<h1>members</h1>")},
	"css/styles.css":         {Data: []byte("body { margin: 0; }")},
}

// spyRepository records how often it was consulted
type spyRepository struct {
	*MemoryUserRepository
	adds  int
	finds int
}

func newSpyRepository() *spyRepository {
	return &spyRepository{MemoryUserRepository: NewMemoryUserRepository()}
}

func (s *spyRepository) Add(u User) {
	s.adds++
	s.MemoryUserRepository.Add(u)
}

func (s *spyRepository) FindByID(id string) (User, bool) {
	s.finds++
	return s.MemoryUserRepository.FindByID(id)
}

func newTestRouter() (*Router, *spyRepository) {
	repo := newSpyRepository()
	return NewRouter(NewFileStore(testDocs), repo), repo
}

func dispatch(t *testing.T, rt *Router, req *Request) (*Response, routeKind) {
	t.Helper()
	if req.Version == "" {
		req.Version = "HTTP/1.1"
	}
	if req.Headers == nil {
		req.Headers = HTTPHeader{}
	}
	res, kind, err := rt.Dispatch(req)
	if err != nil {
		t.Fatalf("dispatch %s %s: %v", req.Method, req.Path, err)
	}
	return res, kind
}

func postForm(path, body string) *Request {
	return &Request{Method: "POST", Path: path, ContentLength: len(body), Body: []byte(body)}
}

func expectRedirect(t *testing.T, res *Response, location, cookie string) {
	t.Helper()
	ExpectEqual(t, "302", strconv.Itoa(res.Status))
	ExpectEqual(t, "Redirect", res.Phrase)
	ExpectEqual(t, location, res.Header("Location"))
	ExpectEqual(t, cookie, res.Header("Set-Cookie"))
	if len(res.Body) != 0 {
		t.Errorf("redirect carries a body: %q", res.Body)
	}
}

func expectOK(t *testing.T, res *Response, contentType, body string) {
	t.Helper()
	ExpectEqual(t, "200", strconv.Itoa(res.Status))
	ExpectEqual(t, contentType+";charset=utf-8", res.Header("Content-Type"))
	ExpectEqual(t, body, string(res.Body))
	ExpectEqual(t, strconv.Itoa(len(res.Body)), res.Header("Content-Length"))
	if res.Header("Location") != "" || res.Header("Set-Cookie") != "" {
		t.Errorf("unexpected redirect headers on 200: %v", res.Headers)
	}
}

func TestDispatchHome(t *testing.T) {
	rt, _ := newTestRouter()
	res, kind := dispatch(t, rt, &Request{Method: "GET", Path: "/"})
	expectOK(t, res, "text/html", "<h1>home</h1>")
	ExpectEqual(t, "fallback", kind.String())
}

func TestDispatchStaticHTML(t *testing.T) {
	rt, _ := newTestRouter()
	res, _ := dispatch(t, rt, &Request{Method: "GET", Path: "/user/form.html"})
	expectOK(t, res, "text/html", "<form></form>")

	res, _ = dispatch(t, rt, &Request{Method: "GET", Path: "/index.html"})
	expectOK(t, res, "text/html", "<h1>home</h1>")
}

func TestDispatchHTMLOnlyForGet(t *testing.T) {
	rt, _ := newTestRouter()
	res, _ := dispatch(t, rt, &Request{Method: "POST", Path: "/user/form.html"})
	expectOK(t, res, "text/html", "")
}

func TestDispatchUnknownPath(t *testing.T) {
	rt, _ := newTestRouter()
	res, kind := dispatch(t, rt, &Request{Method: "GET", Path: "/favicon.ico"})
	expectOK(t, res, "text/html", "")
	if kind != routeFallback {
		t.Errorf("got %s, want fallback", kind)
	}
}

func TestDispatchMissingDocument(t *testing.T) {
	rt, _ := newTestRouter()
	for _, path := range []string{"/missing.html", "/missing.css", "/../index.html"} {
		_, _, err := rt.Dispatch(&Request{Method: "GET", Path: path, Headers: HTTPHeader{}})
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("%s: got %v, want ErrNotFound", path, err)
		}
	}
}

func TestDispatchSignupThenLogin(t *testing.T) {
	rt, repo := newTestRouter()

	res, kind := dispatch(t, rt, postForm("/user/signup", "userId=abc&password=123&name=A&email=a@b.com"))
	expectRedirect(t, res, "/index.html", "")
	if kind != routeSignup {
		t.Errorf("got %s, want signup", kind)
	}
	u, ok := repo.MemoryUserRepository.FindByID("abc")
	if !ok {
		t.Fatal("user was not stored")
	}
	if u != (User{ID: "abc", Password: "123", Name: "A", Email: "a@b.com"}) {
		t.Errorf("stored %+v", u)
	}

	res, kind = dispatch(t, rt, postForm("/user/login", "userId=abc&password=123"))
	expectRedirect(t, res, "/index.html", "logined=true")
	if kind != routeLogin {
		t.Errorf("got %s, want login", kind)
	}
}

func TestDispatchSignupAnyMethod(t *testing.T) {
	rt, repo := newTestRouter()
	req := &Request{Method: "GET", Path: "/user/signup", Body: []byte("userId=x&password=y")}
	res, _ := dispatch(t, rt, req)
	expectRedirect(t, res, "/index.html", "")
	ExpectEqual(t, "1", strconv.Itoa(repo.adds))
}

func TestDispatchLoginFailed(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{"unknown user", "userId=nobody&password=123"},
		{"wrong password", "userId=abc&password=321"},
		{"missing password", "userId=abc"},
		{"empty body", ""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rt, repo := newTestRouter()
			repo.MemoryUserRepository.Add(User{ID: "abc", Password: "123"})
			res, _ := dispatch(t, rt, postForm("/user/login", tc.body))
			expectRedirect(t, res, "/user/login_failed.html", "")
		})
	}
}

func TestDispatchLoginEmptyPassword(t *testing.T) {
	rt, repo := newTestRouter()
	repo.MemoryUserRepository.Add(User{ID: "abc"})
	res, _ := dispatch(t, rt, postForm("/user/login", "userId=abc"))
	expectRedirect(t, res, "/user/login_failed.html", "")

	res, _ = dispatch(t, rt, postForm("/user/login", "userId=abc&password="))
	expectRedirect(t, res, "/index.html", "logined=true")
}

func TestDispatchUserListWithoutCookie(t *testing.T) {
	for _, cookie := range []string{"", "logined=false", "logined=true; theme=dark", " logined=true"} {
		rt, repo := newTestRouter()
		res, kind := dispatch(t, rt, &Request{Method: "GET", Path: "/user/userList", Cookie: cookie})
		expectRedirect(t, res, "/user/login.html", "")
		if kind != routeUserList {
			t.Errorf("cookie %q: got %s, want userList", cookie, kind)
		}
		if repo.adds != 0 || repo.finds != 0 {
			t.Errorf("cookie %q: repository was consulted", cookie)
		}
	}
}

func TestDispatchUserListWithCookie(t *testing.T) {
	rt, repo := newTestRouter()
	res, kind := dispatch(t, rt, &Request{Method: "GET", Path: "/user/userList", Cookie: "logined=true"})
	expectOK(t, res, "text/html", "<h1>members</h1>")
	if kind != routeFallback {
		t.Errorf("got %s, want fallback", kind)
	}
	if repo.finds != 0 {
		t.Error("repository was consulted")
	}
}

func TestDispatchCSS(t *testing.T) {
	rt, _ := newTestRouter()
	res, kind := dispatch(t, rt, &Request{Method: "GET", Path: "/css/styles.css"})
	expectOK(t, res, "text/css", "body { margin: 0; }")
	if kind != routeStaticCSS {
		t.Errorf("got %s, want css", kind)
	}
}

func TestRouteKindString(t *testing.T) {
	names := []string{}
	for _, a := range arms {
		names = append(names, a.kind.String())
	}
	ExpectEqual(t, "home html signup login userList css fallback", strings.Join(names, " "))
}
