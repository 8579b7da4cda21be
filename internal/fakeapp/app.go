// Package fakeapp serves a minimal stand-in for the application under
// verification: signup, login, dashboard and todo pages carrying the same
// placeholders and button labels as the real one. Forms are plain HTML posts
// so that any browser driver can complete them.
package fakeapp

import (
	"html/template"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync"

	"github.com/google/uuid"
)

const sessionCookie = "session"

const pagesHTML = `{{define "head"}}<!DOCTYPE html><html lang="fa" dir="rtl"><head><meta charset="utf-8"><title>{{.}}</title></head><body>{{end}}
{{define "foot"}}</body></html>{{end}}

{{define "home"}}{{template "head" "Home"}}
<h1>خوش آمدید</h1>
<a href="/login">ورود</a> <a href="/signup">ثبت نام</a>
{{template "foot"}}{{end}}

{{define "signup"}}{{template "head" "Signup"}}
<form method="post" action="/signup">
<input name="name" placeholder="نام کاربری خود را وارد کنید">
<input name="email" type="email" placeholder="example@email.com">
<input name="password" type="password" placeholder="رمز عبور قوی انتخاب کنید">
<button type="submit">ثبت نام</button>
</form>
{{template "foot"}}{{end}}

{{define "login"}}{{template "head" "Login"}}
{{if .}}<p role="alert">{{.}}</p>{{end}}
<form method="post" action="/login">
<input name="email" type="email" placeholder="example@email.com">
<input name="password" type="password" placeholder="رمز عبور خود را وارد کنید">
<button type="submit">ورود</button>
</form>
{{template "foot"}}{{end}}

{{define "dashboard"}}{{template "head" "Dashboard"}}
<h1>Dashboard</h1><a href="/todo">Todo</a>
{{template "foot"}}{{end}}

{{define "todo"}}{{template "head" "Todo"}}
<form method="post" action="/todo">
<input name="title" placeholder="What do you want to do...">
<button type="submit">Add</button>
</form>
<ul>{{range .}}<li>{{.}}</li>{{end}}</ul>
{{template "foot"}}{{end}}
`

var pages = template.Must(template.New("pages").Parse(pagesHTML)) //nolint: gochecknoglobals

// App is a running fake application.
type App struct {
	srv *httptest.Server

	mu       sync.Mutex
	users    map[string]string // email -> password
	sessions map[string]string // session id -> email
	todos    []string
}

// New creates an application that is not yet serving.
func New() *App {
	return &App{
		users:    map[string]string{},
		sessions: map[string]string{},
	}
}

// Start starts a new application on a random local port.
func Start() *App {
	a := New()
	a.srv = httptest.NewServer(a.Handler())

	return a
}

// URL returns the base URL of the application.
func (a *App) URL() string { return a.srv.URL }

// Close stops the server.
func (a *App) Close() { a.srv.Close() }

// Users returns the registered email addresses.
func (a *App) Users() []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	emails := make([]string, 0, len(a.users))
	for email := range a.users {
		emails = append(emails, email)
	}
	slices.Sort(emails)

	return emails
}

// Todos returns the todo items added so far.
func (a *App) Todos() []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	return slices.Clone(a.todos)
}

// Handler returns the HTTP handler of the application.
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", a.render("home", nil))
	mux.HandleFunc("GET /signup", a.render("signup", nil))
	mux.HandleFunc("POST /signup", a.signup)
	mux.HandleFunc("GET /login", a.render("login", ""))
	mux.HandleFunc("POST /login", a.login)
	mux.HandleFunc("GET /dashboard", a.requireSession(a.render("dashboard", nil)))
	mux.HandleFunc("GET /todo", a.requireSession(func(w http.ResponseWriter, r *http.Request) {
		a.write(w, http.StatusOK, "todo", a.Todos())
	}))
	mux.HandleFunc("POST /todo", a.requireSession(a.addTodo))

	return withAccessLog(mux)
}

func (a *App) render(page string, data any) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		a.write(w, http.StatusOK, page, data)
	}
}

func (a *App) write(w http.ResponseWriter, status int, page string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = pages.ExecuteTemplate(w, page, data)
}

func (a *App) signup(w http.ResponseWriter, r *http.Request) {
	email, password := r.PostFormValue("email"), r.PostFormValue("password")
	if r.PostFormValue("name") == "" || email == "" || password == "" {
		a.write(w, http.StatusBadRequest, "signup", nil)

		return
	}

	a.mu.Lock()
	a.users[email] = password
	a.mu.Unlock()

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (a *App) login(w http.ResponseWriter, r *http.Request) {
	email, password := r.PostFormValue("email"), r.PostFormValue("password")

	a.mu.Lock()
	stored, ok := a.users[email]
	if !ok || stored != password {
		a.mu.Unlock()
		a.write(w, http.StatusUnauthorized, "login", "ایمیل یا رمز عبور اشتباه است")

		return
	}
	id := uuid.NewString()
	a.sessions[id] = email
	a.mu.Unlock()

	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: id, Path: "/", HttpOnly: true})
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (a *App) addTodo(w http.ResponseWriter, r *http.Request) {
	if title := r.PostFormValue("title"); title != "" {
		a.mu.Lock()
		a.todos = append(a.todos, title)
		a.mu.Unlock()
	}

	http.Redirect(w, r, "/todo", http.StatusSeeOther)
}

func (a *App) requireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(sessionCookie)
		if err == nil {
			a.mu.Lock()
			_, ok := a.sessions[c.Value]
			a.mu.Unlock()
			if ok {
				next(w, r)

				return
			}
		}

		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}
}
