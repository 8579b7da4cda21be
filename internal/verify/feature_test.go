package verify_test

import (
	"context"
	"errors"
	"testing"
	"webverify/internal/verify"
	"webverify/pkg/browser"
	mockbrowser "webverify/pkg/browser/mock"
	"webverify/pkg/serrors"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func featureOptions() verify.FeatureOptions {
	return verify.FeatureOptions{
		BaseURL:     "http://localhost:3000",
		DisplayName: "Test User",
		Password:    "password",
		EmailDomain: "example.com",
		EmailLength: 10,
		TodoText:    "My new todo",
		Screenshot:  "jules-scratch/verification/verification.png",
	}
}

func TestFeature_StepOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	sess := mockbrowser.NewMockSession(ctrl)

	var signupEmail, loginEmail string
	captureEmail := func(dst *string) func(context.Context, browser.Selector, string) error {
		return func(_ context.Context, _ browser.Selector, value string) error {
			*dst = value

			return nil
		}
	}

	gomock.InOrder(
		sess.EXPECT().Goto(gomock.Any(), "http://localhost:3000/signup").Return(nil),
		sess.EXPECT().WaitForSelector(gomock.Any(), verify.EmailInput).Return(nil),
		sess.EXPECT().Fill(gomock.Any(), verify.SignupNameInput, "Test User").Return(nil),
		sess.EXPECT().Fill(gomock.Any(), verify.EmailInput, gomock.Any()).DoAndReturn(captureEmail(&signupEmail)),
		sess.EXPECT().Fill(gomock.Any(), verify.SignupPasswordInput, "password").Return(nil),
		sess.EXPECT().Click(gomock.Any(), verify.SubmitButton).Return(nil),
		sess.EXPECT().WaitForURL(gomock.Any(), "http://localhost:3000/login").Return(nil),

		sess.EXPECT().WaitForSelector(gomock.Any(), verify.EmailInput).Return(nil),
		sess.EXPECT().Fill(gomock.Any(), verify.EmailInput, gomock.Any()).DoAndReturn(captureEmail(&loginEmail)),
		sess.EXPECT().Fill(gomock.Any(), verify.LoginPasswordInput, "password").Return(nil),
		sess.EXPECT().Click(gomock.Any(), verify.SubmitButton).Return(nil),
		sess.EXPECT().WaitForURL(gomock.Any(), "http://localhost:3000/dashboard").Return(nil),

		sess.EXPECT().Goto(gomock.Any(), "http://localhost:3000/todo").Return(nil),
		sess.EXPECT().WaitForSelector(gomock.Any(), verify.TodoInput).Return(nil),
		sess.EXPECT().Fill(gomock.Any(), verify.TodoInput, "My new todo").Return(nil),
		sess.EXPECT().Click(gomock.Any(), verify.AddTodoButton).Return(nil),
		sess.EXPECT().Screenshot(gomock.Any(), "jules-scratch/verification/verification.png").Return(nil),
	)

	flow := verify.NewFeature(featureOptions())
	require.Equal(t, verify.FeatureFlowName, flow.Name())
	require.NoError(t, flow.Run(context.Background(), sess))

	require.Regexp(t, `^[a-z]{10}@example\.com$`, signupEmail)
	require.Equal(t, signupEmail, loginEmail, "login must reuse the account created at signup")
}

func TestFeature_StopsAtFirstError(t *testing.T) {
	ctrl := gomock.NewController(t)
	sess := mockbrowser.NewMockSession(ctrl)

	timeout := errors.New("waiting for selector timed out")
	gomock.InOrder(
		sess.EXPECT().Goto(gomock.Any(), "http://localhost:3000/signup").Return(nil),
		sess.EXPECT().WaitForSelector(gomock.Any(), verify.EmailInput).Return(timeout),
	)
	// no Fill, Click or Screenshot expectations: any further call fails the test

	err := verify.NewFeature(featureOptions()).Run(context.Background(), sess)
	require.ErrorIs(t, err, timeout)
}

func TestFeature_InvalidBaseURL(t *testing.T) {
	ctrl := gomock.NewController(t)
	sess := mockbrowser.NewMockSession(ctrl)

	opts := featureOptions()
	opts.BaseURL = "localhost"

	err := verify.NewFeature(opts).Run(context.Background(), sess)
	require.ErrorIs(t, err, serrors.ErrBadRequest)
}

func TestContractSelectors(t *testing.T) {
	require.Equal(t, `input[placeholder="example@email.com"]`, verify.EmailInput.Playwright())
	require.Equal(t, `input[placeholder="نام کاربری خود را وارد کنید"]`, verify.SignupNameInput.Playwright())
	require.Equal(t, `input[placeholder="رمز عبور قوی انتخاب کنید"]`, verify.SignupPasswordInput.Playwright())
	require.Equal(t, `input[placeholder="رمز عبور خود را وارد کنید"]`, verify.LoginPasswordInput.Playwright())
	require.Equal(t, `button[type="submit"]`, verify.SubmitButton.Playwright())
	require.Equal(t, `input[placeholder="What do you want to do..."]`, verify.TodoInput.Playwright())
	require.Equal(t, `button:has-text("Add")`, verify.AddTodoButton.Playwright())
}
