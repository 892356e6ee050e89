package resolve

// catalog lists the platform's read-only query endpoints with the tags a
// natural-language phrase is scored against. Kept in sync with the parameter
// pattern table by the client facade's tests.
var catalog = []Endpoint{
	{
		Operation:   "eventQuery",
		Path:        "/event/query",
		Description: "Query testing events (sittings) for a program",
		Tags:        []string{"event", "events", "sitting", "sittings", "session", "sessions", "schedule"},
	},
	{
		Operation:   "eventClassQuery",
		Path:        "/event/class/query",
		Description: "Query classes attached to a testing event",
		Tags:        []string{"class", "classes", "event", "cohort", "group"},
	},
	{
		Operation:   "registrationQuery",
		Path:        "/registration/query",
		Description: "Query candidate registrations",
		Tags:        []string{"registration", "registrations", "registered", "enrollment", "enrollments", "signup"},
	},
	{
		Operation:   "candidateQuery",
		Path:        "/candidate/query",
		Description: "Query candidates (test takers)",
		Tags:        []string{"candidate", "candidates", "student", "students", "taker", "takers", "person", "people"},
	},
	{
		Operation:   "candidateAttributeQuery",
		Path:        "/candidate/attribute/query",
		Description: "Query demographic attributes of a candidate",
		Tags:        []string{"attribute", "attributes", "demographic", "demographics", "candidate", "profile"},
	},
	{
		Operation:   "scoreQuery",
		Path:        "/score/query",
		Description: "Query exam scores",
		Tags:        []string{"score", "scores", "scoring", "grade", "grades", "mark", "marks", "performance"},
	},
	{
		Operation:   "scoreReportQuery",
		Path:        "/score/report/query",
		Description: "Query score reports for an exam",
		Tags:        []string{"report", "reports", "score", "transcript", "transcripts"},
	},
	{
		Operation:   "resultQuery",
		Path:        "/result/query",
		Description: "Query pass/fail results",
		Tags:        []string{"result", "results", "pass", "fail", "outcome", "outcomes"},
	},
	{
		Operation:   "examQuery",
		Path:        "/exam/query",
		Description: "Query exams offered by a program",
		Tags:        []string{"exam", "exams", "test", "tests", "assessment", "assessments"},
	},
	{
		Operation:   "examSeriesQuery",
		Path:        "/exam-series/query",
		Description: "Query exam series (related exam groupings)",
		Tags:        []string{"series", "exam", "grouping", "family"},
	},
	{
		Operation:   "examFormQuery",
		Path:        "/exam/form/query",
		Description: "Query forms (versions) of an exam",
		Tags:        []string{"form", "forms", "version", "versions", "exam"},
	},
	{
		Operation:   "appointmentQuery",
		Path:        "/appointment/query",
		Description: "Query scheduled test appointments",
		Tags:        []string{"appointment", "appointments", "booking", "bookings", "scheduled", "slot", "slots"},
	},
	{
		Operation:   "institutionQuery",
		Path:        "/institution/query",
		Description: "Query institutions participating in a program",
		Tags:        []string{"institution", "institutions", "school", "schools", "university", "universities", "college", "colleges", "organization"},
	},
	{
		Operation:   "institutionContactQuery",
		Path:        "/institution/contact/query",
		Description: "Query contacts at an institution",
		Tags:        []string{"contact", "contacts", "institution", "administrator", "administrators"},
	},
	{
		Operation:   "siteQuery",
		Path:        "/site/query",
		Description: "Query physical test sites",
		Tags:        []string{"site", "sites", "center", "centers", "location", "locations", "venue", "venues"},
	},
	{
		Operation:   "windowQuery",
		Path:        "/window/query",
		Description: "Query testing windows (date ranges)",
		Tags:        []string{"window", "windows", "period", "periods", "dates", "range"},
	},
	{
		Operation:   "accommodationQuery",
		Path:        "/accommodation/query",
		Description: "Query approved candidate accommodations",
		Tags:        []string{"accommodation", "accommodations", "disability", "extra", "time", "special"},
	},
	{
		Operation:   "voucherQuery",
		Path:        "/voucher/query",
		Description: "Query exam vouchers",
		Tags:        []string{"voucher", "vouchers", "code", "codes", "discount", "coupon", "coupons"},
	},
	{
		Operation:   "orderQuery",
		Path:        "/order/query",
		Description: "Query purchase orders",
		Tags:        []string{"order", "orders", "purchase", "purchases", "payment", "payments"},
	},
}
