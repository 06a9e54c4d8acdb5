package domain

// Nombres por defecto de una consulta nueva.
const (
	DefaultDoctorName  = "Dr. Smith"
	DefaultPatientName = "Patient"
)

// Conversation es una consulta doctor-paciente con sus campos derivados.
type Conversation struct {
	ID          string `json:"id"`
	DoctorName  string `json:"doctorName"`
	PatientName string `json:"patientName"`
	LastMessage string `json:"lastMessage,omitempty"`
	Summary     string `json:"summary,omitempty"`
	CreatedAt   int64  `json:"createdAt"`
}
