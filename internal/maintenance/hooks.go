package maintenance

import (
	"github.com/albapepper/dupepanel/internal/sales"
	"github.com/albapepper/dupepanel/internal/settings"
)

// RegisterHooks recomputes the queue after every sale or settings change.
// Plates do not affect notifications.
func RegisterHooks(s *sales.Store, st *settings.Store, sched Rescheduler) {
	s.OnChange(sched.Reschedule)
	st.OnChange(sched.Reschedule)
}
