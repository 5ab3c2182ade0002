// Package mdmerge renders personalized drafts from a contact table and a
// Markdown template.
//
// # Quick Start
//
//	open, err := mdmerge.NewSinkOpener(mdmerge.FormatEML, mdmerge.OutputOptions{Dir: "drafts"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	m, err := mdmerge.NewMerger(mdmerge.WithSinkOpener(open))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := m.Run(ctx, mdmerge.Job{
//	    Contacts:      "contacts.csv",
//	    Template:      "email_template.md",
//	    AttachmentDir: "Attachments",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("created %d of %d drafts\n", res.Succeeded, res.Total)
//
// # Pipeline
//
//  1. Input validation (contact table and template must exist)
//  2. Template loading (strict UTF-8)
//  3. Contact table loading: encoding detection, required columns, empty
//     row filtering, value sanitizing
//  4. Per record: <<Column>> substitution, Markdown to HTML via Goldmark,
//     attachment resolution, hand-off to the Sink
//
// A record that fails to render or save is reported in Result.Outcomes and
// the batch continues. Result.Err returns ErrPartialFailure when any record
// failed.
//
// # Contact Table
//
// The first line names the columns. To, CC, BCC, Subject and Attachments are
// required (names configurable through records.Schema); any other column can
// be referenced from the template. Recipients may be separated by commas or
// semicolons. Attachments are comma-separated file names relative to the
// attachment directory.
//
// # Output
//
// Drafts go to a Sink. The package provides:
//
//   - EMLSink: .eml files flagged as unsent, which mail clients open as
//     editable drafts
//   - HTMLSink: standalone pages for review
//   - PDFSink: PDF printouts rendered by headless Chrome (go-rod)
//   - MemorySink: in-memory, for dry runs and tests
//
// # Browser Requirements
//
// PDF output requires Chrome/Chromium. The go-rod library automatically
// downloads a managed Chromium instance on first run (~/.cache/rod/browser/).
// For containers and CI environments, set ROD_NO_SANDBOX=1 to disable the
// Chrome sandbox. Use ROD_BROWSER_BIN to specify a custom Chrome binary.
package mdmerge
