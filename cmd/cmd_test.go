package cmd

import (
	"bytes"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rogersnm/contractme/internal/config"
	"github.com/rogersnm/contractme/internal/content"
	"github.com/rogersnm/contractme/internal/markdown"
	"github.com/rogersnm/contractme/internal/model"
	"github.com/rogersnm/contractme/internal/server"
	"github.com/rogersnm/contractme/internal/store"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupEnv starts a server on a fresh store and points the CLI at it
// through config.yaml in a temp data dir.
func setupEnv(t *testing.T) (*store.Store, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	dataDir = dir

	files, err := content.New(filepath.Join(dir, "files"))
	require.NoError(t, err)
	st := store.New()
	srv := httptest.NewServer(server.New(st, server.Options{Content: files}).Handler())
	t.Cleanup(srv.Close)

	require.NoError(t, config.Save(dir, &config.Config{Server: srv.URL}))
	return st, dir
}

func resetFlags(c *cobra.Command) {
	c.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			f.Value.Set(f.DefValue)
			f.Changed = false
		}
	})
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeTemp(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0644))
	return p
}

func dateIn(days int) string {
	return time.Now().AddDate(0, 0, days).Format(model.DateLayout)
}

func TestDocAdd_WithLinkedDeadline(t *testing.T) {
	st, dir := setupEnv(t)
	body := "Contratto di locazione, rinnovo annuale."
	file := writeTemp(t, "affitto.txt", body)

	out, err := run(t, "doc", "add", file, "--category", "Casa", "--deadline", dateIn(30), "--deadline-desc", "Disdetta entro 3 mesi")
	require.NoError(t, err)
	assert.Contains(t, out, "Added document affitto.txt")
	assert.Contains(t, out, "Added deadline Scadenza: affitto.txt")

	docs := st.Documents.List("")
	require.Len(t, docs, 1)
	assert.Equal(t, "Casa", docs[0].Category)
	assert.True(t, strings.HasPrefix(docs[0].MimeType, "text/plain"))
	assert.Equal(t, int64(len(body)), docs[0].SizeBytes)
	assert.False(t, filepath.IsAbs(docs[0].ContentRef))
	assert.FileExists(t, filepath.Join(dir, "files", docs[0].ContentRef))

	dls := st.Deadlines.List("")
	require.Len(t, dls, 1)
	assert.Equal(t, "Scadenza: affitto.txt", dls[0].Title)
	assert.Equal(t, "Disdetta entro 3 mesi", dls[0].Description)
	assert.Equal(t, docs[0].ID, dls[0].DocumentID)
}

func TestDocAdd_NameOverride(t *testing.T) {
	st, _ := setupEnv(t)
	file := writeTemp(t, "scan001.txt", "x")

	_, err := run(t, "doc", "add", file, "--category", "Salute", "--name", "Referto")
	require.NoError(t, err)
	assert.Equal(t, "Referto", st.Documents.List("")[0].Name)
	assert.Equal(t, 0, st.Deadlines.Count())
}

func TestDocAdd_Errors(t *testing.T) {
	st, _ := setupEnv(t)

	_, err := run(t, "doc", "add", filepath.Join(t.TempDir(), "missing.pdf"), "--category", "Casa")
	assert.Error(t, err)

	file := writeTemp(t, "a.txt", "x")
	_, err = run(t, "doc", "add", file, "--category", "Casa", "--deadline", "31/12/2026")
	assert.Error(t, err)
	assert.Equal(t, 0, st.Documents.Count())
}

func TestDocAdd_RejectedDocumentDropsCopy(t *testing.T) {
	st, dir := setupEnv(t)
	file := writeTemp(t, "a.txt", "x")

	_, err := run(t, "doc", "add", file, "--category", "   ")
	assert.ErrorIs(t, err, store.ErrInvalidCategory)
	assert.Equal(t, 0, st.Documents.Count())

	entries, err := os.ReadDir(filepath.Join(dir, "files"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDocListRecentShow(t *testing.T) {
	setupEnv(t)
	file := writeTemp(t, "polizza.txt", "Polizza RC auto, massimale 6 milioni.")
	_, err := run(t, "doc", "add", file, "--category", "Finanze")
	require.NoError(t, err)
	_, err = run(t, "doc", "add", writeTemp(t, "visita.txt", "x"), "--category", "Salute")
	require.NoError(t, err)

	out, err := run(t, "doc", "list", "--category", "Finanze")
	require.NoError(t, err)
	assert.Contains(t, out, "polizza.txt")
	assert.NotContains(t, out, "visita.txt")

	out, err = run(t, "doc", "recent", "--limit", "1")
	require.NoError(t, err)
	assert.NotEqual(t, strings.Contains(out, "polizza.txt"), strings.Contains(out, "visita.txt"))

	out, err = run(t, "doc", "recent", "--within-days", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "visita.txt")

	out, err = run(t, "doc", "list", "--category", "Viaggi")
	require.NoError(t, err)
	assert.Contains(t, out, "No documents found.")
}

func TestDocShow_Preview(t *testing.T) {
	st, _ := setupEnv(t)
	_, err := run(t, "doc", "add", writeTemp(t, "nota.txt", "Ricordarsi la caparra."), "--category", "Casa")
	require.NoError(t, err)
	id := st.Documents.List("")[0].ID

	out, err := run(t, "doc", "show", id)
	require.NoError(t, err)
	assert.Contains(t, out, "nota.txt")
	assert.Contains(t, out, "Ricordarsi la caparra.")

	_, err = run(t, "doc", "show", "DOC-ZZZZZZZZ")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDocDelete_Cascade(t *testing.T) {
	st, _ := setupEnv(t)
	_, err := run(t, "doc", "add", writeTemp(t, "mutuo.txt", "x"), "--category", "Finanze", "--deadline", dateIn(10))
	require.NoError(t, err)
	id := st.Documents.List("")[0].ID

	_, err = run(t, "deadline", "add", "Rata", "--date", dateIn(40), "--category", "Finanze", "--document", id)
	require.NoError(t, err)
	_, err = run(t, "deadline", "add", "Bollo", "--date", dateIn(5), "--category", "Finanze")
	require.NoError(t, err)
	require.Equal(t, 3, st.Deadlines.Count())

	ref := st.Documents.List("")[0].ContentRef
	require.FileExists(t, filepath.Join(dataDir, "files", ref))

	out, err := run(t, "doc", "delete", id, "--force")
	require.NoError(t, err)
	assert.Contains(t, out, "2 linked deadlines removed")
	assert.NoFileExists(t, filepath.Join(dataDir, "files", ref))
	assert.Equal(t, 0, st.Documents.Count())
	require.Equal(t, 1, st.Deadlines.Count())
	assert.Equal(t, "Bollo", st.Deadlines.List("")[0].Title)

	_, err = run(t, "doc", "delete", id, "--force")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDocAsk(t *testing.T) {
	st, _ := setupEnv(t)
	_, err := run(t, "doc", "add", writeTemp(t, "c.txt", "canone 700 euro mensili"), "--category", "Casa")
	require.NoError(t, err)
	id := st.Documents.List("")[0].ID

	out, err := run(t, "doc", "ask", id, "quanto", "pago?")
	require.NoError(t, err)
	assert.Contains(t, out, "'quanto pago?'")
	assert.Contains(t, out, "canone 700 euro mensili")
}

func TestDeadlineAdd_Errors(t *testing.T) {
	st, _ := setupEnv(t)

	_, err := run(t, "deadline", "add", "X", "--date", "domani", "--category", "Casa")
	assert.Error(t, err)

	_, err = run(t, "deadline", "add", "X", "--date", dateIn(1), "--category", "Casa", "--document", "DOC-NOPE2345")
	assert.ErrorIs(t, err, store.ErrInvalidReference)

	_, err = run(t, "deadline", "add", "X", "--date", dateIn(1))
	assert.ErrorIs(t, err, store.ErrInvalidCategory)

	assert.Equal(t, 0, st.Deadlines.Count())
}

func TestDeadlineImport(t *testing.T) {
	st, _ := setupEnv(t)
	file := writeTemp(t, "bollo.md", "---\ntitle: Bollo auto\ndate: "+dateIn(3)+"\ncategory: Finanze\n---\n\nPagare su pagoPA.\n")

	out, err := run(t, "deadline", "import", file)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported deadline Bollo auto")

	dls := st.Deadlines.List("")
	require.Len(t, dls, 1)
	assert.Equal(t, "Pagare su pagoPA.", dls[0].Description)

	_, err = run(t, "deadline", "import", writeTemp(t, "bad.md", "---\ntitle: x\n---\n"))
	assert.Error(t, err)
}

func TestDeadlineListShowDelete(t *testing.T) {
	st, _ := setupEnv(t)
	_, err := run(t, "deadline", "add", "Lontana", "--date", dateIn(60), "--category", "Viaggi")
	require.NoError(t, err)
	_, err = run(t, "deadline", "add", "Vicina", "--date", dateIn(2), "--category", "Casa", "--description", "portare documenti")
	require.NoError(t, err)

	out, err := run(t, "deadline", "list")
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "Vicina"), strings.Index(out, "Lontana"))
	assert.Contains(t, out, "urgent")
	assert.Contains(t, out, "safe")

	out, err = run(t, "deadline", "list", "--category", "Viaggi")
	require.NoError(t, err)
	assert.NotContains(t, out, "Vicina")

	var vicina model.Deadline
	for _, d := range st.Deadlines.List("") {
		if d.Title == "Vicina" {
			vicina = d
		}
	}

	out, err = run(t, "deadline", "show", vicina.ID, "--raw")
	require.NoError(t, err)
	in, err := markdown.ParseDeadline(strings.NewReader(out), time.Local)
	require.NoError(t, err)
	assert.Equal(t, "Vicina", in.Title)
	assert.Equal(t, "portare documenti", in.Description)

	out, err = run(t, "deadline", "show", vicina.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Casa")

	_, err = run(t, "deadline", "delete", vicina.ID, "--force")
	require.NoError(t, err)
	assert.Equal(t, 1, st.Deadlines.Count())
}

func TestDeadlineUpcoming(t *testing.T) {
	setupEnv(t)
	for _, days := range []int{-5, 0, 3, 20} {
		_, err := run(t, "deadline", "add", "d", "--date", dateIn(days), "--category", "Casa")
		require.NoError(t, err)
	}

	out, err := run(t, "deadline", "upcoming")
	require.NoError(t, err)
	assert.Contains(t, out, "3 deadlines due within 7 days")

	out, err = run(t, "deadline", "upcoming", "--within-days", "30")
	require.NoError(t, err)
	assert.Contains(t, out, "4 deadlines due within 30 days")
}

func TestCalendar(t *testing.T) {
	setupEnv(t)
	_, err := run(t, "deadline", "add", "Dichiarazione", "--date", "2026-03-20", "--category", "Finanze")
	require.NoError(t, err)

	out, err := run(t, "calendar", "2026", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "March 2026")
	assert.Contains(t, out, "20•1")
	assert.Contains(t, out, "Dichiarazione (Finanze)")

	out, err = run(t, "calendar", "2026", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "No deadlines this month.")

	_, err = run(t, "calendar", "2026")
	assert.Error(t, err)
	_, err = run(t, "calendar", "2026", "13")
	assert.Error(t, err)

	_, err = run(t, "calendar")
	assert.NoError(t, err)
}

func TestDashboard_Plain(t *testing.T) {
	setupEnv(t)
	_, err := run(t, "doc", "add", writeTemp(t, "a.txt", "x"), "--category", "Lavoro", "--deadline", dateIn(1))
	require.NoError(t, err)

	out, err := run(t, "dashboard", "--plain")
	require.NoError(t, err)
	assert.Contains(t, out, "| 1 | 1 | 1 | 1 |")
	assert.Contains(t, out, "| Lavoro | 1 |")
	assert.Contains(t, out, "Scadenza: a.txt")

	_, err = run(t, "dashboard")
	assert.NoError(t, err)
}

func TestCategory(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "category", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Casa")

	_, err = run(t, "category", "add", "Auto")
	require.NoError(t, err)
	out, err = run(t, "category", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Auto")
}

func TestConfigSetShow(t *testing.T) {
	_, dir := setupEnv(t)

	_, err := run(t, "config", "set", "upcoming_days", "14")
	require.NoError(t, err)

	c, err := config.LoadFile(dir)
	require.NoError(t, err)
	assert.Equal(t, 14, c.UpcomingDays)
	assert.NotEmpty(t, c.Server)

	out, err := run(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "upcoming_days: 14")

	_, err = run(t, "config", "set", "colour", "blue")
	assert.Error(t, err)
}

func TestServerUnreachable(t *testing.T) {
	setupEnv(t)
	_, err := run(t, "--server", "http://127.0.0.1:1", "category", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "contractme serve")
}

func TestDeadlineNew_FromEditor(t *testing.T) {
	st, _ := setupEnv(t)
	ed := writeTemp(t, "ed.sh", "#!/bin/sh\nsed -i 's/^title: .*/title: Revisione caldaia/' \"$1\"\n")
	require.NoError(t, os.Chmod(ed, 0755))
	t.Setenv("EDITOR", ed)

	out, err := run(t, "deadline", "new", "--category", "Casa")
	require.NoError(t, err)
	assert.Contains(t, out, "Added deadline Revisione caldaia")

	dls := st.Deadlines.List("")
	require.Len(t, dls, 1)
	assert.Equal(t, "Casa", dls[0].Category)
	assert.Equal(t, 7, model.DaysRemaining(dls[0].Date, model.DateOf(time.Now())))
}

func TestDeadlineNew_UntouchedTemplate(t *testing.T) {
	st, _ := setupEnv(t)
	ed := writeTemp(t, "ed.sh", "#!/bin/sh\nexit 0\n")
	require.NoError(t, os.Chmod(ed, 0755))
	t.Setenv("EDITOR", ed)

	_, err := run(t, "deadline", "new", "--category", "Casa")
	assert.Error(t, err)
	assert.Equal(t, 0, st.Deadlines.Count())
}
