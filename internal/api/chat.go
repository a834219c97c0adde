package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"mentor-backend/internal/auth"
	"mentor-backend/internal/chat"
	"mentor-backend/pkg/api"
)

// ChatService exposes the authenticated conversation endpoints. Routes must be
// mounted behind the auth middleware so every request carries an identity.
type ChatService struct {
	pipeline *chat.Pipeline
	memory   *chat.Memory
}

func NewChatService(pipeline *chat.Pipeline, memory *chat.Memory) *ChatService {
	return &ChatService{pipeline: pipeline, memory: memory}
}

func (s *ChatService) AddRoutes(r chi.Router) {
	r.Post("/chat", RestHandler(s.Chat))
	r.Post("/consult", RestHandler(s.Consult))
	r.Get("/history", RestHandler(s.History))
}

func identityOr401(r *http.Request) (string, error) {
	identity := auth.Identity(r.Context())
	if identity == "" {
		return "", CodedErrorf(http.StatusUnauthorized, "Could not validate credentials")
	}
	return identity, nil
}

func (s *ChatService) Chat(r *http.Request) (any, error) {
	identity, err := identityOr401(r)
	if err != nil {
		return nil, err
	}

	req, err := ParseRequest[api.ChatRequest](r)
	if err != nil {
		return nil, err
	}
	if req.Question == "" {
		return nil, CodedErrorf(http.StatusBadRequest, "question is required")
	}

	reply, err := s.pipeline.Chat(r.Context(), identity, req.Question)
	if err != nil {
		if errors.Is(err, chat.ErrGeneration) {
			return nil, CodedErrorf(http.StatusInternalServerError, "Error generating response.")
		}
		return nil, err
	}

	return chatResponse(reply), nil
}

func (s *ChatService) Consult(r *http.Request) (any, error) {
	identity, err := identityOr401(r)
	if err != nil {
		return nil, err
	}

	req, err := ParseRequest[api.ConsultRequest](r)
	if err != nil {
		return nil, err
	}
	if req.Question == "" || req.Screenshot == "" {
		return nil, CodedErrorf(http.StatusBadRequest, "question and screenshot are required")
	}

	reply, err := s.pipeline.Consult(r.Context(), identity, req.Question, req.Screenshot)
	if err != nil {
		if errors.Is(err, chat.ErrVision) {
			return nil, CodedErrorf(http.StatusInternalServerError, "Error processing image.")
		}
		return nil, err
	}

	return chatResponse(reply), nil
}

type historyParams struct {
	Limit int `schema:"limit"`
}

func (s *ChatService) History(r *http.Request) (any, error) {
	identity, err := identityOr401(r)
	if err != nil {
		return nil, err
	}

	params, err := ParseRequestQueryParams[historyParams](r)
	if err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 || limit > chat.PromptWindow {
		limit = chat.PromptWindow
	}

	turns := s.memory.RecentN(identity, limit)
	items := make([]api.HistoryItem, 0, len(turns))
	for _, turn := range turns {
		items = append(items, api.HistoryItem{Role: turn.Role, Content: turn.Content})
	}
	return api.HistoryResponse{Turns: items}, nil
}

func chatResponse(reply chat.Reply) api.ChatResponse {
	resp := api.ChatResponse{Answer: reply.Answer}
	if reply.AudioURL != "" {
		url := reply.AudioURL
		resp.AudioURL = &url
	}
	return resp
}
