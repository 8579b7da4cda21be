package cdpdriver

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
	"webverify/internal/fakeapp"
	"webverify/pkg/browser"
	"webverify/pkg/serrors"

	"github.com/stretchr/testify/require"
)

func TestQuery(t *testing.T) {
	q, by, err := query(browser.ByCSS(`button[type="submit"]`))
	require.NoError(t, err)
	require.Equal(t, `button[type="submit"]`, q)
	require.NotNil(t, by)

	q, _, err = query(browser.ByText("button", "Add"))
	require.NoError(t, err)
	require.Equal(t, `//button[contains(normalize-space(.), "Add")]`, q)

	_, _, err = query(browser.Selector{CSS: "form > button", Text: "Add"})
	require.ErrorIs(t, err, serrors.ErrBadRequest)
}

func launch(t *testing.T, opts browser.Options) browser.Session {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}

	sess, err := New(opts).Launch(context.Background())
	if err != nil {
		t.Skipf("chromium unavailable: %v", err)
	}
	t.Cleanup(func() { _ = sess.Close() })

	return sess
}

func testOptions() browser.Options {
	opts := browser.DefaultOptions()
	opts.Timeout = 10 * time.Second
	opts.NoSandbox = true

	return opts
}

func TestSession_LoginPage(t *testing.T) {
	sess := launch(t, testOptions())

	app := fakeapp.Start()
	defer app.Close()

	ctx := context.Background()
	require.NoError(t, sess.Goto(ctx, app.URL()+"/signup"))
	require.NoError(t, sess.WaitForSelector(ctx, browser.ByPlaceholder("example@email.com")))
	require.NoError(t, sess.Fill(ctx, browser.ByPlaceholder("نام کاربری خود را وارد کنید"), "Test User"))
	require.NoError(t, sess.Fill(ctx, browser.ByPlaceholder("example@email.com"), "abc@example.com"))
	require.NoError(t, sess.Fill(ctx, browser.ByPlaceholder("رمز عبور قوی انتخاب کنید"), "password"))
	require.NoError(t, sess.Click(ctx, browser.ByCSS(`button[type="submit"]`)))
	require.NoError(t, sess.WaitForURL(ctx, app.URL()+"/login"))
	require.Equal(t, []string{"abc@example.com"}, app.Users())

	path := filepath.Join(t.TempDir(), "nested", "login.png")
	require.NoError(t, sess.Screenshot(ctx, path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Positive(t, info.Size())
}

func TestSession_Timeout(t *testing.T) {
	opts := testOptions()
	opts.Timeout = time.Second
	sess := launch(t, opts)

	app := fakeapp.Start()
	defer app.Close()

	ctx := context.Background()
	require.NoError(t, sess.Goto(ctx, app.URL()))
	require.ErrorIs(t, sess.WaitForSelector(ctx, browser.ByCSS("#missing")), serrors.ErrTimeout)
	require.ErrorIs(t, sess.WaitForURL(ctx, app.URL()+"/elsewhere"), serrors.ErrTimeout)
}

func TestSession_CallerCancellation(t *testing.T) {
	sess := launch(t, testOptions())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := sess.WaitForSelector(ctx, browser.ByCSS("#missing"))
	require.Error(t, err)
	require.ErrorIs(t, err, context.Canceled)
}

func TestLaunch_BadRemote(t *testing.T) {
	opts := testOptions()
	opts.RemoteURL = "ws://127.0.0.1:1"

	_, err := New(opts).Launch(context.Background())
	require.ErrorIs(t, err, serrors.ErrUnavailable)
}
