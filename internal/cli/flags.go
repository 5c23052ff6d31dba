package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/taskline/internal/domain"
	"github.com/alexanderramin/taskline/internal/gantt"
	"github.com/spf13/pflag"
)

// dateValue is a YYYY-MM-DD flag. An unset flag leaves the zero time.
type dateValue struct{ t *time.Time }

var _ pflag.Value = (*dateValue)(nil)

func newDateValue(p *time.Time) *dateValue { return &dateValue{t: p} }

func (d *dateValue) String() string {
	if d.t == nil || d.t.IsZero() {
		return ""
	}
	return domain.FormatDate(*d.t)
}

func (d *dateValue) Set(s string) error {
	t, err := domain.ParseDate(s)
	if err != nil {
		return err
	}
	*d.t = t
	return nil
}

func (d *dateValue) Type() string { return "date" }

// intentValue is a before|after|onto flag.
type intentValue struct{ v *domain.DropIntent }

var _ pflag.Value = (*intentValue)(nil)

func newIntentValue(def domain.DropIntent, p *domain.DropIntent) *intentValue {
	*p = def
	return &intentValue{v: p}
}

func (i *intentValue) String() string { return string(*i.v) }

func (i *intentValue) Set(s string) error {
	intent, err := domain.ParseDropIntent(s)
	if err != nil {
		return err
	}
	*i.v = intent
	return nil
}

func (i *intentValue) Type() string { return "intent" }

// modeValue is a move|resize-start|resize-end flag.
type modeValue struct{ m *gantt.Mode }

var _ pflag.Value = (*modeValue)(nil)

func newModeValue(def gantt.Mode, p *gantt.Mode) *modeValue {
	*p = def
	return &modeValue{m: p}
}

func (m *modeValue) String() string { return string(*m.m) }

func (m *modeValue) Set(s string) error {
	mode, err := gantt.ParseMode(s)
	if err != nil {
		return err
	}
	*m.m = mode
	return nil
}

func (m *modeValue) Type() string { return "mode" }

// monthValue is a YYYY-MM flag.
type monthValue struct {
	year  *int
	month *time.Month
}

var _ pflag.Value = (*monthValue)(nil)

func (v *monthValue) String() string {
	if *v.year == 0 {
		return ""
	}
	return fmt.Sprintf("%04d-%02d", *v.year, int(*v.month))
}

func (v *monthValue) Set(s string) error {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return fmt.Errorf("invalid month %q (expected YYYY-MM)", s)
	}
	*v.year, *v.month = t.Year(), t.Month()
	return nil
}

func (v *monthValue) Type() string { return "month" }
