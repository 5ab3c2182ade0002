package mdmerge_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-mdmerge"
)

// Example runs a merge into memory and prints the first draft.
func Example() {
	dir, err := os.MkdirTemp("", "mdmerge-example-*")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer os.RemoveAll(dir)

	contacts := filepath.Join(dir, "contacts.csv")
	template := filepath.Join(dir, "email_template.md")
	_ = os.WriteFile(contacts, []byte("To,CC,BCC,Subject,Attachments,Name\nbob@example.com,,,Welcome,,Bob\n"), 0o644)
	_ = os.WriteFile(template, []byte("Dear <<Name>>,\n\nWelcome aboard."), 0o644)

	sink := &mdmerge.MemorySink{}
	m, err := mdmerge.NewMerger(mdmerge.WithSinkOpener(mdmerge.StaticSink(sink)))
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	res, err := m.Run(context.Background(), mdmerge.Job{Contacts: contacts, Template: template})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	d := sink.Drafts()[0]
	fmt.Printf("created %d of %d\n", res.Succeeded, res.Total)
	fmt.Println(d.To[0], "|", d.Subject)
	fmt.Println(strings.Contains(d.HTML, "<p>Dear Bob,</p>"))
	// Output:
	// created 1 of 1
	// bob@example.com | Welcome
	// true
}

// ExampleResult_Err shows how a partial failure surfaces.
func ExampleResult_Err() {
	res := &mdmerge.Result{
		Total:     3,
		Succeeded: 2,
		Failed:    1,
		Outcomes: []mdmerge.Outcome{
			{Line: 2}, {Line: 3, Err: mdmerge.ErrSinkSave}, {Line: 4},
		},
	}
	fmt.Println(res.Err())
	// Output: some drafts could not be created: 1 of 3 (lines 3)
}
