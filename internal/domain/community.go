package domain

import "time"

const (
	InquiryPending  = "대기"
	InquiryAnswered = "완료"
)

type Notice struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	Content string    `json:"content,omitempty"`
	RegDate time.Time `json:"regDate"`
}

// MyInquiry is an inquiry as listed to its writer.
type MyInquiry struct {
	ID            string     `json:"INQUIRY_ID"`
	Title         string     `json:"TITLE"`
	Status        string     `json:"STATUS"`
	RegDate       time.Time  `json:"REG_DATE"`
	AnswerDate    *time.Time `json:"ANSWER_DATE"`
	AnswerContent *string    `json:"ANSWER_CONTENT"`
}

// AdminInquiry is an inquiry row in the admin feedback list.
type AdminInquiry struct {
	ID           string    `json:"id"`
	UserNickname string    `json:"userNickname"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

type InquiryDetail struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	Status        string     `json:"status"`
	RegDate       time.Time  `json:"regDate"`
	AnswerContent *string    `json:"answerContent"`
	AnswerDate    *time.Time `json:"answerDate"`
	WriterName    string     `json:"writerName"`
	WriterEmail   string     `json:"writerEmail"`
}

type DashboardStats struct {
	TotalUsers   int64 `json:"totalUsers"`
	TotalReviews int64 `json:"totalReviews"`
	TotalSpots   int64 `json:"totalSpots"`
}
