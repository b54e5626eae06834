package inform

import (
	"testing"
	"time"

	"github.com/legalconnect/intakego/internal/pkg/messages"

	"github.com/spf13/viper"

	. "github.com/smartystreets/goconvey/convey"
)

func TestMakerFailsInit(t *testing.T) {
	Convey("Given no url", t, func() {
		m, err := newSimpleEmailMaker(viper.New())
		Convey("Constructor should fail", func() {
			So(err, ShouldNotBeNil)
			So(m, ShouldBeNil)
		})
	})
}

func TestMakerInit_OK(t *testing.T) {
	Convey("Given url", t, func() {
		v := viper.New()
		v.Set("mail.url", "url")
		m, err := newSimpleEmailMaker(v)
		Convey("Constructor should succeed", func() {
			So(err, ShouldBeNil)
			So(m.url, ShouldEqual, "url")
		})
	})
}

func TestEmail(t *testing.T) {
	Convey("Given config", t, func() {
		v := viper.New()
		v.Set("mail.url", "url/{{CASE_ID}}")
		v.Set("mail.caseCreated.subject", "subject")
		v.Set("mail.caseCreated.text", "text")
		v.Set("smtp.username", "cases@legalconnect.com")
		m, _ := newSimpleEmailMaker(v)
		event := messages.CaseEvent{CaseID: "c1", Category: "PROPERTY",
			Email: "client@service.com", At: time.Now()}
		Convey("Mail should be made", func() {
			e, err := m.Make(&event)
			So(err, ShouldBeNil)
			So(e.Subject, ShouldEqual, "subject")
			So(e.To, ShouldContain, "client@service.com")
			So(e.From, ShouldEqual, "cases@legalconnect.com")
			So(string(e.Text), ShouldEqual, "text")
		})
		Convey("Should fail no subject", func() {
			v.Set("mail.caseCreated.subject", "")
			_, err := m.Make(&event)
			So(err, ShouldNotBeNil)
		})
		Convey("Should fail no text", func() {
			v.Set("mail.caseCreated.text", "")
			_, err := m.Make(&event)
			So(err, ShouldNotBeNil)
		})
		Convey("Should change case ID", func() {
			v.Set("mail.caseCreated.text", "{{CASE_ID}}")
			e, _ := m.Make(&event)
			So(string(e.Text), ShouldEqual, "c1")
		})
		Convey("Should change category", func() {
			v.Set("mail.caseCreated.text", "{{CATEGORY}}")
			e, _ := m.Make(&event)
			So(string(e.Text), ShouldEqual, "PROPERTY")
		})
		Convey("Should change URL", func() {
			v.Set("mail.caseCreated.text", "{{URL}}")
			e, _ := m.Make(&event)
			So(string(e.Text), ShouldEqual, "url/c1")
		})
		Convey("Should change Date", func() {
			v.Set("mail.caseCreated.text", "{{DATE}}")
			e, _ := m.Make(&event)
			So(string(e.Text), ShouldStartWith, event.At.Format("2006-01-02 15:04:05"))
		})
	})
}
