package cli

import (
	"fmt"
	"io"

	"github.com/alexanderramin/siteplan/internal/cli/formatter"
	"github.com/alexanderramin/siteplan/internal/notify"
)

type toastNotifier struct {
	w io.Writer
}

// NewToastNotifier prints a one-line confirmation to w for every mutation
// event. Write errors are ignored.
func NewToastNotifier(w io.Writer) notify.Notifier {
	return toastNotifier{w: w}
}

func (n toastNotifier) Notify(e notify.Event) {
	fmt.Fprintln(n.w, formatter.FormatToast(e))
}
