package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"finishline/internal/app/config"
	"finishline/internal/app/ds"

	"github.com/shopspring/decimal"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type post struct {
	channel string
	text    string
	blocks  string
}

type fakeSlack struct {
	mu     sync.Mutex
	posts  []post
	status int
}

func (f *fakeSlack) handler(w http.ResponseWriter, r *http.Request) {
	if f.status != 0 {
		w.WriteHeader(f.status)
		return
	}
	_ = r.ParseForm()
	f.mu.Lock()
	f.posts = append(f.posts, post{
		channel: r.FormValue("channel"),
		text:    r.FormValue("text"),
		blocks:  r.FormValue("blocks"),
	})
	f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"ok":true,"channel":"C1","ts":"1700000000.000100"}`))
}

func newTestNotifier(t *testing.T, fake *fakeSlack, cfg config.SlackConfig) *SlackNotifier {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(fake.handler))
	t.Cleanup(srv.Close)
	return NewSlack(cfg, slack.OptionAPIURL(srv.URL+"/"))
}

func TestNotifyChangeRequestPostsToTeam(t *testing.T) {
	fake := &fakeSlack{}
	n := newTestNotifier(t, fake, config.SlackConfig{AppURL: "https://finishlinebyner.com/"})

	err := n.NotifyChangeRequest(context.Background(),
		ds.Team{TeamName: "Electrical", SlackID: "C-ELEC"},
		"ISSUE CR submitted by Ada Lovelace for the Wiring project", 12, nil)
	require.NoError(t, err)

	require.Len(t, fake.posts, 1)
	assert.Equal(t, "C-ELEC", fake.posts[0].channel)
	assert.Equal(t, "ISSUE CR submitted by Ada Lovelace for the Wiring project", fake.posts[0].text)
	assert.Contains(t, fake.posts[0].blocks, "https://finishlinebyner.com/cr/12")
}

func TestNotifyChangeRequestBudgetAlert(t *testing.T) {
	fake := &fakeSlack{}
	n := newTestNotifier(t, fake, config.SlackConfig{
		AppURL:               "https://finishlinebyner.com",
		LeadershipChannel:    "C-LEAD",
		BudgetAlertThreshold: 100,
	})
	team := ds.Team{TeamName: "Electrical", SlackID: "C-ELEC"}

	small := decimal.NewFromInt(50)
	require.NoError(t, n.NotifyChangeRequest(context.Background(), team, "small", 1, &small))
	require.Len(t, fake.posts, 1)

	big := decimal.NewFromInt(250)
	require.NoError(t, n.NotifyChangeRequest(context.Background(), team, "big", 2, &big))
	require.Len(t, fake.posts, 3)
	assert.Equal(t, "C-LEAD", fake.posts[2].channel)
	assert.Equal(t, "big with $250.00 requested", fake.posts[2].text)
}

func TestNotifyChangeRequestSlackError(t *testing.T) {
	fake := &fakeSlack{status: http.StatusInternalServerError}
	n := newTestNotifier(t, fake, config.SlackConfig{})

	err := n.NotifyChangeRequest(context.Background(), ds.Team{TeamName: "Electrical", SlackID: "C"}, "msg", 1, nil)
	assert.Error(t, err)
}

func TestLogNotifier(t *testing.T) {
	err := LogNotifier{}.NotifyChangeRequest(context.Background(), ds.Team{TeamName: "Electrical"}, "msg", 1, nil)
	assert.NoError(t, err)
}
