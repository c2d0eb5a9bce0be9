package classfinder

import (
	"github.com/antzucaro/matchr"
)

type Course struct {
	Code    string `json:"code"`
	Credits int    `json:"credits"`
}

// Catalog is the static scan space: which courses exist, which section
// labels a course may have, and the fixed query constants the portal
// wants. loaded once at startup, never mutated.
type Catalog struct {
	Department     string   `json:"department"`
	Semester       int      `json:"semester"`
	Year           int      `json:"year"`
	CurriculumYear int      `json:"curriculum_year"`
	Sections       []string `json:"sections"`
	Courses        []Course `json:"courses"`
}

func (c Catalog) Credits(code string) int {
	for _, course := range c.Courses {
		if course.Code == code {
			return course.Credits
		}
	}
	return 0
}

func (c Catalog) Contains(code string) bool {
	for _, course := range c.Courses {
		if course.Code == code {
			return true
		}
	}
	return false
}

// NearestCode returns the catalog code most similar to `code`, for
// "did you mean" suggestions on unknown course filters.
func (c Catalog) NearestCode(code string) string {
	var best string
	var bestSimilarity float64
	for _, course := range c.Courses {
		similarity := matchr.JaroWinkler(code, course.Code, false)
		if similarity > bestSimilarity {
			bestSimilarity = similarity
			best = course.Code
		}
	}
	return best
}

// DefaultCatalog is the Informatics department catalog the deployment
// scans: department 51100, even semester of the 2024 academic year,
// 2023 curriculum.
func DefaultCatalog() Catalog {
	return Catalog{
		Department:     "51100",
		Semester:       2,
		Year:           2024,
		CurriculumYear: 2023,
		Sections: []string{
			"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "P", "T", "M00",
		},
		Courses: []Course{
			{Code: "EF4103", Credits: 3},
			{Code: "EF4101", Credits: 4},
			{Code: "SM4101", Credits: 3},
			{Code: "EF4104", Credits: 4},
			{Code: "EF4102", Credits: 3},
			{Code: "SM4201", Credits: 3},
			{Code: "EF4204", Credits: 3},
			{Code: "EF4203", Credits: 3},
			{Code: "EE4101", Credits: 2},
			{Code: "EF4202", Credits: 4},
			{Code: "EF4201", Credits: 4},
			{Code: "EF4801", Credits: 5},
			{Code: "EF4303", Credits: 4},
			{Code: "EK4201", Credits: 3},
			{Code: "EF4307", Credits: 2},
			{Code: "EF4305", Credits: 3},
			{Code: "EF4302", Credits: 3},
			{Code: "EF4301", Credits: 3},
			{Code: "EF4304", Credits: 3},
			{Code: "EF4404", Credits: 3},
			{Code: "EF4403", Credits: 2},
			{Code: "EF4406", Credits: 3},
			{Code: "EF4401", Credits: 3},
			{Code: "EF4405", Credits: 3},
			{Code: "ER4301", Credits: 3},
			{Code: "EF4402", Credits: 3},
			{Code: "EF4518", Credits: 3},
			{Code: "EF4504", Credits: 3},
			{Code: "EF4507", Credits: 3},
			{Code: "EF4502", Credits: 3},
			{Code: "EF4512", Credits: 3},
			{Code: "EF4503", Credits: 3},
			{Code: "EF4501", Credits: 3},
			{Code: "EF4509", Credits: 3},
			{Code: "EF4520", Credits: 3},
			{Code: "EF4519", Credits: 3},
			{Code: "EF4521", Credits: 3},
			{Code: "EF4517", Credits: 3},
			{Code: "EF4515", Credits: 3},
			{Code: "EF4505", Credits: 3},
			{Code: "EF4510", Credits: 3},
			{Code: "EF4513", Credits: 3},
			{Code: "EF4508", Credits: 3},
			{Code: "EF4514", Credits: 3},
			{Code: "EF4511", Credits: 3},
			{Code: "EF4506", Credits: 3},
			{Code: "EF4612", Credits: 3},
			{Code: "EF4615", Credits: 3},
			{Code: "EF4616", Credits: 3},
			{Code: "EF4605", Credits: 3},
			{Code: "EF4619", Credits: 3},
			{Code: "EF4614", Credits: 3},
			{Code: "EF4613", Credits: 3},
			{Code: "EF4618", Credits: 3},
			{Code: "EF4602", Credits: 3},
			{Code: "EF4607", Credits: 3},
			{Code: "EF4606", Credits: 3},
			{Code: "EF4603", Credits: 4},
			{Code: "EF4604", Credits: 3},
			{Code: "EF4625", Credits: 3},
			{Code: "ER4402", Credits: 3},
			{Code: "ER4503", Credits: 3},
			{Code: "EF4608", Credits: 3},
			{Code: "EF4601", Credits: 3},
			{Code: "EF4621", Credits: 3},
			{Code: "EF4620", Credits: 3},
			{Code: "EF4610", Credits: 3},
			{Code: "EF4609", Credits: 3},
			{Code: "EF4617", Credits: 3},
			{Code: "EF4611", Credits: 3},
			{Code: "EK4501", Credits: 3},
			{Code: "EF4708", Credits: 3},
			{Code: "ER4403", Credits: 3},
			{Code: "EF4712", Credits: 3},
			{Code: "EF4701", Credits: 2},
			{Code: "ER4505", Credits: 3},
			{Code: "EF4705", Credits: 3},
			{Code: "EF4710", Credits: 3},
			{Code: "EF4704", Credits: 3},
			{Code: "EF4713", Credits: 3},
			{Code: "EF4722", Credits: 6},
			{Code: "EF4707", Credits: 3},
			{Code: "EF4706", Credits: 3},
			{Code: "EF4702", Credits: 2},
			{Code: "EF4711", Credits: 3},
			{Code: "EF4726", Credits: 3},
			{Code: "EF4709", Credits: 3},
			{Code: "EF4703", Credits: 3},
			{Code: "EF4714", Credits: 3},
			{Code: "EF4715", Credits: 3},
			{Code: "EF4716", Credits: 3},
			{Code: "EF4717", Credits: 3},
			{Code: "EF4718", Credits: 3},
			{Code: "EF4719", Credits: 3},
			{Code: "EF4720", Credits: 3},
			{Code: "EF4721", Credits: 3},
		},
	}
}
