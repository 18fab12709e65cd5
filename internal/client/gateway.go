package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"smart-classroom/backend/internal/dto"
)

// Gateway 后端接口；Session 只依赖该接口，测试中以内存实现替换
type Gateway interface {
	ListClasses(ctx context.Context) ([]dto.ClassGroupResponse, error)
	ListTeachers(ctx context.Context) ([]dto.TeacherResponse, error)
	ListSubjects(ctx context.Context) ([]dto.SubjectResponse, error)
	ListRooms(ctx context.Context) ([]dto.RoomResponse, error)
	ListTimeSlots(ctx context.Context) ([]dto.TimeSlotResponse, error)

	GetSchedule(ctx context.Context, classID int64) (ScheduleMap, error)
	Generate(ctx context.Context) (dto.GenerateStats, error)
	Clear(ctx context.Context) error
	Override(ctx context.Context, req OverrideRequest) error
}

// OverrideRequest 覆盖请求体
type OverrideRequest struct {
	ClassID   int64 `json:"class_id"`
	Day       int   `json:"day"`
	Slot      int   `json:"slot"`
	SubjectID int64 `json:"subject_id"`
	TeacherID int64 `json:"teacher_id"`
	RoomID    int64 `json:"room_id"`
}

// HTTPGateway 基于 net/http 的 Gateway 实现，解码统一响应信封
type HTTPGateway struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPGateway 创建 HTTPGateway；baseURL 形如 http://localhost:8000/api/v1
func NewHTTPGateway(baseURL string, httpClient *http.Client) *HTTPGateway {
	if httpClient == nil {
		httpClient = DefaultHTTPClient(0)
	}
	return &HTTPGateway{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// DefaultHTTPClient 默认 HTTP 客户端；timeout <= 0 时使用 10s
func DefaultHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// envelope 与 pkg/response.Response 相同的结构，data 延迟解码
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Details string          `json:"details"`
}

// ── 目录 ──

func (g *HTTPGateway) ListClasses(ctx context.Context) ([]dto.ClassGroupResponse, error) {
	var out []dto.ClassGroupResponse
	return out, g.do(ctx, http.MethodGet, "/catalog/classes", nil, &out)
}

func (g *HTTPGateway) ListTeachers(ctx context.Context) ([]dto.TeacherResponse, error) {
	var out []dto.TeacherResponse
	return out, g.do(ctx, http.MethodGet, "/catalog/teachers", nil, &out)
}

func (g *HTTPGateway) ListSubjects(ctx context.Context) ([]dto.SubjectResponse, error) {
	var out []dto.SubjectResponse
	return out, g.do(ctx, http.MethodGet, "/catalog/subjects", nil, &out)
}

func (g *HTTPGateway) ListRooms(ctx context.Context) ([]dto.RoomResponse, error) {
	var out []dto.RoomResponse
	return out, g.do(ctx, http.MethodGet, "/catalog/rooms", nil, &out)
}

func (g *HTTPGateway) ListTimeSlots(ctx context.Context) ([]dto.TimeSlotResponse, error) {
	var out []dto.TimeSlotResponse
	return out, g.do(ctx, http.MethodGet, "/catalog/timeslots", nil, &out)
}

// ── 课表 ──

// GetSchedule 读取单个班级课表；响应中缺少该班级表示整周空闲
func (g *HTTPGateway) GetSchedule(ctx context.Context, classID int64) (ScheduleMap, error) {
	var raw dto.ScheduleResponse
	path := "/schedule?class_id=" + strconv.FormatInt(classID, 10)
	if err := g.do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}

	entries := raw[strconv.FormatInt(classID, 10)]
	out := make(ScheduleMap, len(entries))
	for key, e := range entries {
		day, slot, err := dto.ParseSlotKey(key)
		if err != nil {
			return nil, err
		}
		out[CellKey{Day: day, Slot: slot}] = Entry{
			SubjectID: e.SubjectID,
			TeacherID: e.TeacherID,
			RoomID:    e.RoomID,
			Subject:   e.Subject,
			Teacher:   e.Teacher,
			Room:      e.Room,
		}
	}
	return out, nil
}

func (g *HTTPGateway) Generate(ctx context.Context) (dto.GenerateStats, error) {
	var out dto.GenerateResponse
	if err := g.do(ctx, http.MethodPost, "/schedule/generate", nil, &out); err != nil {
		return dto.GenerateStats{}, err
	}
	return out.Stats, nil
}

func (g *HTTPGateway) Clear(ctx context.Context) error {
	return g.do(ctx, http.MethodPost, "/schedule/clear", nil, nil)
}

// Override 提交覆盖；400/409 转为 OverrideRejected
func (g *HTTPGateway) Override(ctx context.Context, req OverrideRequest) error {
	err := g.do(ctx, http.MethodPost, "/schedule/override", req, nil)

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Status {
		case http.StatusBadRequest, http.StatusConflict:
			return &OverrideRejected{Status: apiErr.Status, Code: apiErr.Code, Reason: apiErr.Message}
		}
	}
	return err
}

// ── 内部 ──

func (g *HTTPGateway) do(ctx context.Context, method, path string, body, out interface{}) error {
	if g.baseURL == "" {
		return errors.New("未配置后端地址")
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return &APIError{Status: resp.StatusCode, Message: resp.Status}
		}
		return fmt.Errorf("解析响应失败: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest || env.Code != 0 {
		msg := env.Message
		if env.Details != "" {
			msg += ": " + env.Details
		}
		return &APIError{Status: resp.StatusCode, Code: env.Code, Message: msg}
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("解析响应数据失败: %w", err)
	}
	return nil
}
