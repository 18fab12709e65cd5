package errors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrSlotTaken 同一班级同一时间段已存在排课（唯一约束 uq_class_timeslot 冲突）
var ErrSlotTaken = errors.New("该班级在此时间段已有排课，请刷新后重试")

// IsUniqueViolation 判断是否为 PostgreSQL 唯一约束冲突（23505）
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "23505"
}
