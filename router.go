package main

import (
	"strings"
)

const (
	homePath        = "/index.html"
	loginPath       = "/user/login.html"
	loginFailedPath = "/user/login_failed.html"
	userListPage    = "/user/list.html"

	signupRoute   = "/user/signup"
	loginRoute    = "/user/login"
	userListRoute = "/user/userList"
)

type routeKind int

const (
	routeHome routeKind = iota
	routeStaticHTML
	routeSignup
	routeLogin
	routeUserList
	routeStaticCSS
	routeFallback
)

var routeNames = [...]string{"home", "html", "signup", "login", "userList", "css", "fallback"}

func (k routeKind) String() string {
	return routeNames[k]
}

// pending is what a non-terminal arm leaves behind for the fallback arm.
type pending struct {
	body        []byte
	contentType string
}

// An arm either returns a response, which ends dispatch, or nil after
// (optionally) updating pending, in which case the next arm is tried.
type arm struct {
	kind   routeKind
	match  func(*Request) bool
	handle func(*Router, *Request, *pending) (*Response, error)
}

// Arms are not mutually exclusive; every matching arm runs in order until
// one of them produces a response.
var arms = []arm{
	{routeHome, isGet("/"), (*Router).serveHome},
	{routeStaticHTML, isGetSuffix(".html"), (*Router).serveStatic},
	{routeSignup, pathIs(signupRoute), (*Router).signup},
	{routeLogin, pathIs(loginRoute), (*Router).login},
	{routeUserList, pathIs(userListRoute), (*Router).userList},
	{routeStaticCSS, isGetSuffix(".css"), (*Router).serveCSS},
	{routeFallback, always, (*Router).fallback},
}

func isGet(path string) func(*Request) bool {
	return func(req *Request) bool {
		return req.Method == "GET" && req.Path == path
	}
}

func isGetSuffix(suffix string) func(*Request) bool {
	return func(req *Request) bool {
		return req.Method == "GET" && strings.HasSuffix(req.Path, suffix)
	}
}

func pathIs(path string) func(*Request) bool {
	return func(req *Request) bool {
		return req.Path == path
	}
}

func always(*Request) bool { return true }

// Router maps a request to exactly one response.
type Router struct {
	files FileStore
	users UserRepository
}

func NewRouter(files FileStore, users UserRepository) *Router {
	return &Router{files: files, users: users}
}

// Dispatch returns the response for req and the arm that produced it. A
// file store failure aborts dispatch and is returned as is.
func (rt *Router) Dispatch(req *Request) (*Response, routeKind, error) {
	p := &pending{body: []byte{}, contentType: contentTypeHTML}
	for _, a := range arms {
		if !a.match(req) {
			continue
		}
		res, err := a.handle(rt, req, p)
		if err != nil {
			return nil, a.kind, err
		}
		if res != nil {
			return res, a.kind, nil
		}
	}
	panic("not reached")
}

func (rt *Router) serveHome(req *Request, p *pending) (*Response, error) {
	return nil, rt.load(homePath, p)
}

func (rt *Router) serveStatic(req *Request, p *pending) (*Response, error) {
	return nil, rt.load(req.Path, p)
}

func (rt *Router) signup(req *Request, p *pending) (*Response, error) {
	params := ParseQuery(string(req.Body))
	rt.users.Add(User{
		ID:       params["userId"],
		Password: params["password"],
		Name:     params["name"],
		Email:    params["email"],
	})
	return NewRedirectResponse(homePath, ""), nil
}

func (rt *Router) login(req *Request, p *pending) (*Response, error) {
	params := ParseQuery(string(req.Body))
	user, found := rt.users.FindByID(params["userId"])
	password, given := params["password"]
	if found && given && user.Password == password {
		return NewRedirectResponse(homePath, loginCookie), nil
	}
	return NewRedirectResponse(loginFailedPath, ""), nil
}

func (rt *Router) userList(req *Request, p *pending) (*Response, error) {
	if req.Cookie != loginCookie {
		return NewRedirectResponse(loginPath, ""), nil
	}
	return nil, rt.load(userListPage, p)
}

func (rt *Router) serveCSS(req *Request, p *pending) (*Response, error) {
	body, err := rt.files.Read(req.Path)
	if err != nil {
		return nil, err
	}
	return NewOKResponse(contentTypeCSS, body), nil
}

func (rt *Router) fallback(req *Request, p *pending) (*Response, error) {
	return NewOKResponse(p.contentType, p.body), nil
}

func (rt *Router) load(path string, p *pending) error {
	body, err := rt.files.Read(path)
	if err != nil {
		return err
	}
	p.body = body
	return nil
}
