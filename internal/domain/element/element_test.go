package element_test

import (
	"testing"

	element "github.com/redflagduel/arena/internal/domain/element"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNewElement(t *testing.T) {
	Convey("Given a freshly created element", t, func() {
		e := element.New("el-1", "Il fouille ton téléphone", element.CategoryCouple)

		Convey("Then every rating track starts at the default score", func() {
			So(e.Global.Score, ShouldEqual, element.DefaultScore)
			So(e.Global.Participations, ShouldEqual, 0)
			for _, s := range element.Sexes() {
				So(e.SexTrack(s).Score, ShouldEqual, element.DefaultScore)
			}
			for _, a := range element.AgeBrackets() {
				So(e.AgeTrack(a).Score, ShouldEqual, element.DefaultScore)
			}
		})

		Convey("Then it is active", func() {
			So(e.Active, ShouldBeTrue)
		})
	})
}

func TestPairKey(t *testing.T) {
	Convey("Given two element ids in either order", t, func() {
		k1 := element.NewPairKey("alpha", "beta")
		k2 := element.NewPairKey("beta", "alpha")

		Convey("Then both orders produce the same key", func() {
			So(k1, ShouldEqual, k2)
		})

		Convey("Then the key splits back into both ids", func() {
			a, b, ok := k1.Split()
			So(ok, ShouldBeTrue)
			So(a, ShouldEqual, "alpha")
			So(b, ShouldEqual, "beta")
		})

		Convey("Then membership checks see both sides and nothing else", func() {
			So(k1.Contains("alpha"), ShouldBeTrue)
			So(k1.Contains("beta"), ShouldBeTrue)
			So(k1.Contains("gamma"), ShouldBeFalse)
		})
	})

	Convey("Given a malformed key", t, func() {
		_, _, ok := element.PairKey("loneid").Split()
		So(ok, ShouldBeFalse)
	})
}

func TestClone(t *testing.T) {
	Convey("Given a cloned element", t, func() {
		e := element.New("el-1", "label", element.CategoryAmis)
		c := e.Clone()
		c.BySex[element.SexFemale] = element.Track{Score: 1234, Participations: 9}

		Convey("Then mutating the clone leaves the original untouched", func() {
			So(e.SexTrack(element.SexFemale).Score, ShouldEqual, element.DefaultScore)
		})
	})
}

func TestEnums(t *testing.T) {
	Convey("Given the known enums", t, func() {
		Convey("Then every listed category validates and garbage does not", func() {
			for _, c := range element.Categories() {
				So(c.IsValid(), ShouldBeTrue)
			}
			So(element.Category("politique").IsValid(), ShouldBeFalse)
		})

		Convey("Then a profile needs both buckets valid", func() {
			So(element.Profile{Sex: element.SexFemale, Age: element.Age25To34}.IsValid(), ShouldBeTrue)
			So(element.Profile{Sex: "robot", Age: element.Age25To34}.IsValid(), ShouldBeFalse)
			So(element.Profile{Sex: element.SexMale, Age: "12-17"}.IsValid(), ShouldBeFalse)
		})
	})
}
