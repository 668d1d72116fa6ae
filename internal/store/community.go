package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"coursemate-engine/internal/domain"
)

// ListNotices returns notice headers without content, newest first.
func ListNotices(ctx context.Context, q Querier) ([]domain.Notice, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT NOTICE_ID, TITLE, REG_DATE FROM NOTICE ORDER BY REG_DATE DESC, NOTICE_ID DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Notice{}
	for rows.Next() {
		var (
			n   domain.Notice
			reg dbTime
		)
		if err := rows.Scan(&n.ID, &n.Title, &reg); err != nil {
			return nil, err
		}
		n.RegDate = reg.Time
		out = append(out, n)
	}
	return out, rows.Err()
}

func NoticeByID(ctx context.Context, q Querier, id string) (domain.Notice, error) {
	var (
		n   domain.Notice
		reg dbTime
	)
	err := q.QueryRowContext(ctx,
		`SELECT NOTICE_ID, TITLE, CONTENT, REG_DATE FROM NOTICE WHERE NOTICE_ID = ?`, id).
		Scan(&n.ID, &n.Title, &n.Content, &reg)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Notice{}, ErrNotFound
	}
	n.RegDate = reg.Time
	return n, err
}

func CreateNotice(ctx context.Context, q Querier, title, content string) (string, error) {
	id := "NOTI-" + uuid.NewString()
	_, err := q.ExecContext(ctx,
		`INSERT INTO NOTICE (NOTICE_ID, TITLE, CONTENT, REG_DATE) VALUES (?, ?, ?, ?)`,
		id, title, content, now())
	return id, err
}

func DeleteNotice(ctx context.Context, q Querier, id string) error {
	res, err := q.ExecContext(ctx, `DELETE FROM NOTICE WHERE NOTICE_ID = ?`, id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

// CreateInquiry files a new inquiry in the pending state.
func CreateInquiry(ctx context.Context, q Querier, userID, title, content string) (string, error) {
	id := "INQ-" + uuid.NewString()
	_, err := q.ExecContext(ctx,
		`INSERT INTO INQUIRY (INQUIRY_ID, USER_ID, TITLE, CONTENT, STATUS, REG_DATE) VALUES (?, ?, ?, ?, ?, ?)`,
		id, userID, title, content, domain.InquiryPending, now())
	return id, err
}

func InquiriesByUser(ctx context.Context, q Querier, userID string) ([]domain.MyInquiry, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT INQUIRY_ID, TITLE, STATUS, REG_DATE, ANSWER_DATE, ANSWER_CONTENT
		 FROM INQUIRY WHERE USER_ID = ?
		 ORDER BY REG_DATE DESC, INQUIRY_ID DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.MyInquiry{}
	for rows.Next() {
		var (
			m        domain.MyInquiry
			reg, ans dbTime
			answer   sql.NullString
		)
		if err := rows.Scan(&m.ID, &m.Title, &m.Status, &reg, &ans, &answer); err != nil {
			return nil, err
		}
		m.RegDate = reg.Time
		m.AnswerDate = ans.Ptr()
		if answer.Valid {
			m.AnswerContent = &answer.String
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func ListInquiries(ctx context.Context, q Querier) ([]domain.AdminInquiry, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT i.INQUIRY_ID, u.NAME, i.TITLE, i.CONTENT, i.STATUS, i.REG_DATE
		 FROM INQUIRY i
		 LEFT JOIN USER u ON i.USER_ID = u.USER_ID
		 ORDER BY i.REG_DATE DESC, i.INQUIRY_ID DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.AdminInquiry{}
	for rows.Next() {
		var (
			a    domain.AdminInquiry
			nick sql.NullString
			reg  dbTime
		)
		if err := rows.Scan(&a.ID, &nick, &a.Title, &a.Content, &a.Status, &reg); err != nil {
			return nil, err
		}
		a.UserNickname = nick.String
		a.CreatedAt = reg.Time
		out = append(out, a)
	}
	return out, rows.Err()
}

func InquiryByID(ctx context.Context, q Querier, id string) (domain.InquiryDetail, error) {
	var (
		d             domain.InquiryDetail
		reg, ans      dbTime
		answer        sql.NullString
		writer, email sql.NullString
	)
	err := q.QueryRowContext(ctx,
		`SELECT i.INQUIRY_ID, i.TITLE, i.CONTENT, i.STATUS, i.REG_DATE,
		        i.ANSWER_CONTENT, i.ANSWER_DATE, u.NAME, u.EMAIL
		 FROM INQUIRY i
		 LEFT JOIN USER u ON i.USER_ID = u.USER_ID
		 WHERE i.INQUIRY_ID = ?`, id).
		Scan(&d.ID, &d.Title, &d.Content, &d.Status, &reg, &answer, &ans, &writer, &email)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.InquiryDetail{}, ErrNotFound
	}
	if err != nil {
		return domain.InquiryDetail{}, err
	}
	d.RegDate = reg.Time
	d.AnswerDate = ans.Ptr()
	if answer.Valid {
		d.AnswerContent = &answer.String
	}
	d.WriterName = writer.String
	d.WriterEmail = email.String
	return d, nil
}

// AnswerInquiry stores the answer and marks the inquiry done.
func AnswerInquiry(ctx context.Context, q Querier, id, answer string) error {
	res, err := q.ExecContext(ctx,
		`UPDATE INQUIRY SET ANSWER_CONTENT = ?, ANSWER_DATE = ?, STATUS = ? WHERE INQUIRY_ID = ?`,
		answer, now(), domain.InquiryAnswered, id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}
