package notify

import "context"

// YesterdayChecker reports whether yesterday's sleep is already logged.
type YesterdayChecker interface {
	CheckYesterday(ctx context.Context) (bool, error)
}

const (
	reminderTitle = "Sleep log reminder"
	reminderBody  = "Yesterday's sleep is not logged yet."
)

// RemindIfYesterdayUnlogged fires the daily reminder when yesterday has no
// complete sleep record. Returns true when a notification was sent.
func RemindIfYesterdayUnlogged(ctx context.Context, checker YesterdayChecker, notifier *Notifier) (bool, error) {
	hasData, err := checker.CheckYesterday(ctx)
	if err != nil {
		return false, err
	}
	if hasData {
		return false, nil
	}
	if err := notifier.Show(ctx, reminderTitle, reminderBody); err != nil {
		return false, err
	}
	return true, nil
}
