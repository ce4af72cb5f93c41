// Package calendar exports a confirmed trial class as an iCalendar file.
package calendar

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/essenciabjj/trial/internal/models"
	"github.com/essenciabjj/trial/internal/schedule"
)

const (
	productID = "-//Essencia BJJ//Aula Experimental//PT"
	location  = "Essência BJJ"
)

// Event builds a single-event calendar for reg on the chosen date.
// The class time range must parse; "All Day" slots are never bookable.
func Event(reg models.Registration, date schedule.DateCandidate, stamp time.Time) (string, error) {
	start, end, err := schedule.ParseTimeRange(reg.ClassTime)
	if err != nil {
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)

	uid := reg.ID
	if uid == "" {
		uid = fmt.Sprintf("%s-%s", date.Date.Format("20060102"), reg.ClassName)
	}
	evt := cal.AddEvent(uid + "@essenciabjj")
	evt.SetDtStampTime(stamp)
	evt.SetStartAt(date.Date.Add(start))
	evt.SetEndAt(date.Date.Add(end))
	evt.SetSummary("Aula experimental: " + reg.ClassName)
	evt.SetLocation(location)
	evt.SetDescription(fmt.Sprintf("%s, %d anos. Telefone: %s", reg.FullName, reg.Age, reg.Phone))

	return cal.Serialize(), nil
}
