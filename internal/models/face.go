package models

// FaceDescriptor is a registered student feature vector served by the
// backend for kiosk matching.
type FaceDescriptor struct {
	StudentID  int64     `json:"studentId"`
	Descriptor []float32 `json:"descriptor"`
}
