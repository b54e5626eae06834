package api

// Upload request form parameters
const (
	// PrmFile is form parameter for the audio file
	PrmFile = "file"
	// PrmUserID is form parameter for the owning user
	PrmUserID = "userId"
	// PrmCaseTitle is form parameter for the created case title
	PrmCaseTitle = "caseTitle"
	// PrmEmail is form parameter for the optional notification email
	PrmEmail = "email"
	// PrmLawyerID is form parameter for the accepted lawyer
	PrmLawyerID = "lawyerId"
)
