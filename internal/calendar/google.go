package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	clientSecretsFile = "credentials.json"
	tokenFile         = "token.json"
	oauthCallbackPort = "6789"
)

// GoogleEventStore implements EventStore on top of the Google Calendar API.
// Credentials and the cached OAuth token live under credentialsDir. The
// service is built lazily on the first RequestAccess so that running without
// calendar sync never touches the network.
type GoogleEventStore struct {
	credentialsDir string
	calendarName   string

	srv        *gcal.Service
	calendarID string
}

func NewGoogleEventStore(credentialsDir, calendarName string) *GoogleEventStore {
	return &GoogleEventStore{credentialsDir: credentialsDir, calendarName: calendarName}
}

func (g *GoogleEventStore) RequestAccess(ctx context.Context) (bool, error) {
	if g.srv != nil {
		return true, nil
	}
	client, err := g.oauthClient(ctx)
	if err != nil {
		return false, err
	}
	srv, err := gcal.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return false, fmt.Errorf("build calendar service: %w", err)
	}
	calendarID, err := resolveCalendarID(srv, g.calendarName)
	if err != nil {
		return false, err
	}
	g.srv = srv
	g.calendarID = calendarID
	return true, nil
}

func (g *GoogleEventStore) FetchEvents(ctx context.Context, start, end time.Time) ([]Event, error) {
	if g.srv == nil {
		return nil, errors.New("calendar: not authorized")
	}
	res, err := g.srv.Events.List(g.calendarID).
		TimeMin(start.Format(time.RFC3339)).
		TimeMax(end.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	out := make([]Event, 0, len(res.Items))
	for _, ev := range res.Items {
		out = append(out, Event{
			ID:    ev.Id,
			Title: ev.Summary,
			Notes: ev.Description,
			Start: parseEventTime(ev.Start),
			End:   parseEventTime(ev.End),
		})
	}
	return out, nil
}

func (g *GoogleEventStore) CreateEvent(ctx context.Context, title, notes string, start, end time.Time) (string, error) {
	if g.srv == nil {
		return "", errors.New("calendar: not authorized")
	}
	created, err := g.srv.Events.Insert(g.calendarID, &gcal.Event{
		Summary:     title,
		Description: notes,
		Start:       &gcal.EventDateTime{DateTime: start.Format(time.RFC3339)},
		End:         &gcal.EventDateTime{DateTime: end.Format(time.RFC3339)},
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("insert event: %w", err)
	}
	return created.Id, nil
}

func (g *GoogleEventStore) UpdateEvent(ctx context.Context, id, title, notes string, start, end time.Time) error {
	if g.srv == nil {
		return errors.New("calendar: not authorized")
	}
	_, err := g.srv.Events.Patch(g.calendarID, id, &gcal.Event{
		Summary:     title,
		Description: notes,
		Start:       &gcal.EventDateTime{DateTime: start.Format(time.RFC3339)},
		End:         &gcal.EventDateTime{DateTime: end.Format(time.RFC3339)},
	}).Context(ctx).Do()
	if isNotFound(err) {
		return ErrEventNotFound
	}
	return err
}

func (g *GoogleEventStore) DeleteEvent(ctx context.Context, id string) error {
	if g.srv == nil {
		return errors.New("calendar: not authorized")
	}
	err := g.srv.Events.Delete(g.calendarID, id).Context(ctx).Do()
	if isNotFound(err) {
		return ErrEventNotFound
	}
	return err
}

func (g *GoogleEventStore) ListCalendars(ctx context.Context) ([]CalendarRef, error) {
	if g.srv == nil {
		return nil, errors.New("calendar: not authorized")
	}
	list, err := g.srv.CalendarList.List().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("list calendars: %w", err)
	}
	out := make([]CalendarRef, 0, len(list.Items))
	for _, item := range list.Items {
		out = append(out, CalendarRef{ID: item.Id, Name: item.Summary, Primary: item.Primary})
	}
	return out, nil
}

func resolveCalendarID(srv *gcal.Service, name string) (string, error) {
	if name == "" {
		return "primary", nil
	}
	list, err := srv.CalendarList.List().Do()
	if err != nil {
		return "", fmt.Errorf("list calendars: %w", err)
	}
	for _, item := range list.Items {
		if item.Summary == name {
			return item.Id, nil
		}
	}
	return "", fmt.Errorf("calendar %q not found", name)
}

func parseEventTime(edt *gcal.EventDateTime) time.Time {
	if edt == nil {
		return time.Time{}
	}
	if edt.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, edt.DateTime); err == nil {
			return t
		}
	}
	if edt.Date != "" {
		if t, err := time.Parse("2006-01-02", edt.Date); err == nil {
			return t
		}
	}
	return time.Time{}
}

func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		// Google reports deleted events as 410 on some endpoints.
		return apiErr.Code == http.StatusNotFound || apiErr.Code == http.StatusGone
	}
	return false
}

func (g *GoogleEventStore) oauthClient(ctx context.Context) (*http.Client, error) {
	secrets, err := os.ReadFile(filepath.Join(g.credentialsDir, clientSecretsFile))
	if err != nil {
		return nil, fmt.Errorf("read client secrets: %w", err)
	}
	conf, err := google.ConfigFromJSON(secrets, gcal.CalendarEventsScope, gcal.CalendarReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("parse client secrets: %w", err)
	}
	conf.RedirectURL = fmt.Sprintf("http://localhost:%s/oauth2callback", oauthCallbackPort)

	tokenPath := filepath.Join(g.credentialsDir, tokenFile)
	tok, err := tokenFromFile(tokenPath)
	if err != nil {
		tok, err = tokenFromWeb(ctx, conf)
		if err != nil {
			return nil, err
		}
		if saveErr := saveToken(tokenPath, tok); saveErr != nil {
			return nil, saveErr
		}
	}
	return conf.Client(ctx, tok), nil
}

// tokenFromWeb runs the authorization-code flow with a short-lived local HTTP
// listener catching the redirect. The user follows the printed URL in a
// browser; we block until the code arrives or the flow times out.
func tokenFromWeb(ctx context.Context, conf *oauth2.Config) (*oauth2.Token, error) {
	listener, err := net.Listen("tcp", ":"+oauthCallbackPort)
	if err != nil {
		return nil, fmt.Errorf("start oauth listener: %w", err)
	}
	defer listener.Close()

	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)
	server := &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			code := r.URL.Query().Get("code")
			if code == "" {
				http.Error(w, "authorization code not found", http.StatusBadRequest)
				errCh <- errors.New("authorization code missing from redirect")
				return
			}
			fmt.Fprint(w, "Authorization complete. You can close this window.")
			codeCh <- code
		}),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		if serveErr := server.Serve(listener); serveErr != nil && serveErr != http.ErrServerClosed {
			errCh <- serveErr
		}
	}()
	defer server.Shutdown(context.Background())

	authURL := conf.AuthCodeURL("state-token", oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
	fmt.Fprintf(os.Stderr, "Open this URL in a browser to authorize calendar access:\n%s\n", authURL)

	select {
	case code := <-codeCh:
		exchangeCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		return conf.Exchange(exchangeCtx, code)
	case flowErr := <-errCh:
		return nil, flowErr
	case <-time.After(5 * time.Minute):
		return nil, errors.New("authorization timed out")
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("decode token %s: %w", path, err)
	}
	return tok, nil
}

func saveToken(path string, tok *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("open token file: %w", err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(tok)
}
