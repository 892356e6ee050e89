package params

// defaultPatterns is the built-in pattern table for the platform's read-only
// query endpoints. Every program-scoped operation auto-injects programId from
// the environment; institution-scoped operations additionally pick up the
// institution id when one is configured.
var defaultPatterns = map[string]Pattern{
	"eventQuery": {
		Path:       "/event/query",
		Required:   []string{"programId"},
		Optional:   []string{"eventId", "eventName", "startDate", "endDate", "status"},
		AutoInject: map[string]string{"programId": "defaultProgramId"},
	},
	"eventClassQuery": {
		Path:       "/event/class/query",
		Required:   []string{"programId", "eventId"},
		Optional:   []string{"classId", "className"},
		AutoInject: map[string]string{"programId": "defaultProgramId"},
	},
	"registrationQuery": {
		Path:     "/registration/query",
		Required: []string{"programId"},
		Optional: []string{"registrationId", "candidateId", "eventId", "status"},
		AutoInject: map[string]string{
			"programId":     "defaultProgramId",
			"institutionId": "programInstitutionId",
		},
	},
	"candidateQuery": {
		Path:       "/candidate/query",
		Required:   []string{"programId"},
		Optional:   []string{"candidateId", "lastName", "email", "externalId"},
		AutoInject: map[string]string{"programId": "defaultProgramId"},
	},
	"candidateAttributeQuery": {
		Path:       "/candidate/attribute/query",
		Required:   []string{"programId", "candidateId"},
		AutoInject: map[string]string{"programId": "defaultProgramId"},
	},
	"scoreQuery": {
		Path:       "/score/query",
		Required:   []string{"programId"},
		Optional:   []string{"examId", "candidateId", "scoreStatus", "startDate", "endDate"},
		AutoInject: map[string]string{"programId": "defaultProgramId"},
	},
	"scoreReportQuery": {
		Path:       "/score/report/query",
		Required:   []string{"programId", "examId"},
		AutoInject: map[string]string{"programId": "defaultProgramId"},
	},
	"resultQuery": {
		Path:       "/result/query",
		Required:   []string{"programId"},
		Optional:   []string{"resultId", "candidateId", "examId"},
		AutoInject: map[string]string{"programId": "defaultProgramId"},
	},
	"examQuery": {
		Path:       "/exam/query",
		Required:   []string{"programId"},
		Optional:   []string{"examId", "examName", "examSeriesId"},
		AutoInject: map[string]string{"programId": "defaultProgramId"},
	},
	"examSeriesQuery": {
		Path:       "/exam-series/query",
		Required:   []string{"programId"},
		Optional:   []string{"examSeriesId", "examSeriesName"},
		AutoInject: map[string]string{"programId": "defaultProgramId"},
	},
	"examFormQuery": {
		Path:       "/exam/form/query",
		Required:   []string{"programId", "examId"},
		Optional:   []string{"formId"},
		AutoInject: map[string]string{"programId": "defaultProgramId"},
	},
	"appointmentQuery": {
		Path:     "/appointment/query",
		Required: []string{"programId"},
		Optional: []string{"appointmentId", "candidateId", "siteId", "startDate", "endDate"},
		AutoInject: map[string]string{
			"programId":     "defaultProgramId",
			"institutionId": "programInstitutionId",
		},
	},
	"institutionQuery": {
		Path:     "/institution/query",
		Required: []string{"programId"},
		Optional: []string{"institutionId", "institutionName"},
		AutoInject: map[string]string{
			"programId":     "defaultProgramId",
			"institutionId": "programInstitutionId",
		},
	},
	"institutionContactQuery": {
		Path:     "/institution/contact/query",
		Required: []string{"programId", "institutionId"},
		AutoInject: map[string]string{
			"programId":     "defaultProgramId",
			"institutionId": "programInstitutionId",
		},
	},
	"siteQuery": {
		Path:       "/site/query",
		Required:   []string{"programId"},
		Optional:   []string{"siteId", "siteName", "city", "country"},
		AutoInject: map[string]string{"programId": "defaultProgramId"},
	},
	"windowQuery": {
		Path:       "/window/query",
		Required:   []string{"programId"},
		Optional:   []string{"windowId", "startDate", "endDate"},
		AutoInject: map[string]string{"programId": "defaultProgramId"},
	},
	"accommodationQuery": {
		Path:       "/accommodation/query",
		Required:   []string{"programId"},
		Optional:   []string{"accommodationId", "candidateId"},
		AutoInject: map[string]string{"programId": "defaultProgramId"},
	},
	"voucherQuery": {
		Path:       "/voucher/query",
		Required:   []string{"programId"},
		Optional:   []string{"voucherId", "voucherCode", "status"},
		AutoInject: map[string]string{"programId": "defaultProgramId"},
	},
	"orderQuery": {
		Path:       "/order/query",
		Required:   []string{"programId"},
		Optional:   []string{"orderId", "candidateId", "status"},
		AutoInject: map[string]string{"programId": "defaultProgramId"},
	},
	Wildcard: {
		AutoInject: map[string]string{"programId": "defaultProgramId"},
	},
}
