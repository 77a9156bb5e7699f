package spotify

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"

	"github.com/charlie-adam/nts-scraper/config"
)

// authTimeout bounds how long we wait for the user to approve access in
// their browser before giving up.
const authTimeout = 120 * time.Second

const callbackPage = `<html><body style="font-family: sans-serif; text-align: center; padding-top: 4em;">
<h1 style="color: #1db954;">Spotify connected</h1>
<p>You can close this tab and return to the terminal.</p>
</body></html>`

// callbackResult carries the outcome of one authorization attempt from
// the HTTP handler back to Authorize. Only the token crosses the channel;
// the client is built on the other side so its lifetime isn't tied to the
// callback request's context.
type callbackResult struct {
	token *oauth2.Token
	err   error
}

// Authorize runs the authorization code flow for playlist writes. It
// prints the consent URL, serves a one-shot callback handler at the
// configured redirect URI, and blocks until the browser round trip
// completes or the timeout expires.
func Authorize(ctx context.Context, cfg *config.Config) (*spotify.Client, error) {
	redirectURL, err := url.Parse(cfg.Spotify.RedirectURI)
	if err != nil {
		return nil, fmt.Errorf("invalid redirect URI '%s': %w", cfg.Spotify.RedirectURI, err)
	}

	auth := spotifyauth.New(
		spotifyauth.WithRedirectURL(cfg.Spotify.RedirectURI),
		spotifyauth.WithClientID(cfg.Spotify.ClientID),
		spotifyauth.WithClientSecret(cfg.Spotify.ClientSecret),
		spotifyauth.WithScopes(
			spotifyauth.ScopePlaylistModifyPublic,
			spotifyauth.ScopePlaylistModifyPrivate,
		),
	)

	state, err := randomState()
	if err != nil {
		return nil, err
	}

	// Buffered so the handler never blocks if a second callback arrives.
	results := make(chan callbackResult, 1)

	mux := http.NewServeMux()
	mux.HandleFunc(redirectURL.Path, callbackHandler(auth, state, results))

	listener, err := net.Listen("tcp", redirectURL.Host)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", redirectURL.Host, err)
	}

	server := &http.Server{Handler: mux}
	go server.Serve(listener)
	defer server.Close()

	fmt.Println("🔑 Open this URL in your browser to connect Spotify:")
	fmt.Println(auth.AuthURL(state))

	select {
	case result := <-results:
		if result.err != nil {
			return nil, result.err
		}
		// The client refreshes the token long after the callback request
		// is done, so it hangs off the caller's context.
		return spotify.New(auth.Client(ctx, result.token)), nil
	case <-time.After(authTimeout):
		return nil, fmt.Errorf("timed out waiting for Spotify authorization after %s", authTimeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// callbackHandler exchanges the authorization code and hands the token
// back over results. Only the first outcome is delivered.
func callbackHandler(auth *spotifyauth.Authenticator, state string, results chan<- callbackResult) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := auth.Token(r.Context(), state, r)
		if err != nil {
			http.Error(w, "authorization failed", http.StatusForbidden)
			select {
			case results <- callbackResult{err: fmt.Errorf("failed to get token: %w", err)}:
			default:
			}
			return
		}

		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, callbackPage)

		select {
		case results <- callbackResult{token: token}:
		default:
		}
	}
}

// randomState generates an unguessable state parameter for the OAuth
// round trip.
func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
