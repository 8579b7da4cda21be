package verify

import "webverify/pkg/browser"

// Application paths used by the feature flow.
const (
	SignupPath    = "/signup"
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
	TodoPath      = "/todo"
)

// Selectors the application is expected to expose.
var (
	EmailInput          = browser.ByPlaceholder("example@email.com")
	SignupNameInput     = browser.ByPlaceholder("نام کاربری خود را وارد کنید")
	SignupPasswordInput = browser.ByPlaceholder("رمز عبور قوی انتخاب کنید")
	LoginPasswordInput  = browser.ByPlaceholder("رمز عبور خود را وارد کنید")
	SubmitButton        = browser.ByCSS(`button[type="submit"]`)
	TodoInput           = browser.ByPlaceholder("What do you want to do...")
	AddTodoButton       = browser.ByText("button", "Add")
)
