package mongo

const (
	store      = "intake"
	audioTable = "audio"
	caseTable  = "cases"
)

var indexData = []IndexData{
	newIndexData(audioTable, "ID", true),
	newIndexData(audioTable, "caseID", false),
	newIndexData(caseTable, "ID", true)}
