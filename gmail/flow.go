package gmail

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"

	"golang.org/x/oauth2"
)

// LoopbackFlow runs the installed-app OAuth consent dance: it binds a
// listener on an ephemeral loopback port, prints the consent URL for the
// user to open in a browser, waits for the provider to redirect back with
// an authorization code, and exchanges the code for a token. Blocks until
// the user acts or ctx is cancelled.
type LoopbackFlow struct {
	// Out receives the user-facing prompt; defaults to os.Stdout.
	Out io.Writer
}

func (f *LoopbackFlow) Authorize(ctx context.Context, conf *oauth2.Config) (*oauth2.Token, error) {
	out := f.Out
	if out == nil {
		out = os.Stdout
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("starting callback listener: %w", err)
	}
	defer ln.Close()

	state, err := randomState()
	if err != nil {
		return nil, err
	}

	// The redirect URL must carry the actual port we got.
	flowConf := *conf
	flowConf.RedirectURL = fmt.Sprintf("http://%s/", ln.Addr().String())

	authURL := flowConf.AuthCodeURL(state, oauth2.AccessTypeOffline)
	fmt.Fprintf(out, "Open the following link in your browser to authorize read-only Gmail access:\n%s\n", authURL)

	type callback struct {
		code string
		err  error
	}
	results := make(chan callback, 1)

	srv := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Browsers also request things like /favicon.ico.
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		q := r.URL.Query()
		var res callback
		switch {
		case q.Get("error") != "":
			res.err = fmt.Errorf("consent denied: %s", q.Get("error"))
			http.Error(w, "Authorization was denied.", http.StatusForbidden)
		case q.Get("state") != state:
			res.err = errors.New("state parameter mismatch")
			http.Error(w, "Invalid state parameter.", http.StatusBadRequest)
		case q.Get("code") == "":
			res.err = errors.New("redirect carried no authorization code")
			http.Error(w, "Missing authorization code.", http.StatusBadRequest)
		default:
			res.code = q.Get("code")
			fmt.Fprintln(w, "Authorization complete. You can close this tab.")
		}
		select {
		case results <- res:
		default:
		}
	})}
	go srv.Serve(ln)
	defer srv.Close()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-results:
		if res.err != nil {
			return nil, res.err
		}
		return flowConf.Exchange(ctx, res.code)
	}
}

func randomState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating state token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
