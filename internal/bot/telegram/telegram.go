package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-resty/resty/v2"

	"github.com/avolkov/paynotify/internal/bot/telegram/config"
)

// JSON ответ Bot API
type apiResponse struct {
	Ok          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	Description string          `json:"description"`
}

type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message"`
}

type Message struct {
	MessageID int64     `json:"message_id"`
	From      *User     `json:"from"`
	Chat      Chat      `json:"chat"`
	Text      string    `json:"text"`
	Document  *Document `json:"document"`
}

type User struct {
	ID int64 `json:"id"`
}

type Chat struct {
	ID int64 `json:"id"`
}

type Document struct {
	FileID   string `json:"file_id"`
	FileName string `json:"file_name"`
}

type File struct {
	FileID   string `json:"file_id"`
	FilePath string `json:"file_path"`
}

// длительность long poll, секунды
const pollTimeout = 30

type Client interface {
	GetUpdates(ctx context.Context, offset int64) ([]Update, error)
	SendMessage(ctx context.Context, chatID int64, text string) error
	GetFile(ctx context.Context, fileID string) (File, error)
	Download(ctx context.Context, filePath string) ([]byte, error)
}

type client struct {
	apiURL string
	token  string
}

func NewClient(cfg config.Config) Client {
	return client{
		apiURL: cfg.APIURL,
		token:  cfg.Token,
	}
}

func (client client) GetUpdates(ctx context.Context, offset int64) ([]Update, error) {
	var updates []Update
	err := client.call(ctx, "getUpdates", map[string]string{
		"offset":  strconv.FormatInt(offset, 10),
		"timeout": strconv.Itoa(pollTimeout),
	}, &updates)
	return updates, err
}

func (client client) SendMessage(ctx context.Context, chatID int64, text string) error {
	return client.call(ctx, "sendMessage", map[string]string{
		"chat_id": strconv.FormatInt(chatID, 10),
		"text":    text,
	}, nil)
}

func (client client) GetFile(ctx context.Context, fileID string) (File, error) {
	var file File
	err := client.call(ctx, "getFile", map[string]string{
		"file_id": fileID,
	}, &file)
	return file, err
}

func (client client) Download(ctx context.Context, filePath string) ([]byte, error) {
	setreq := resty.New().R().SetContext(ctx)
	setreq.Method = http.MethodGet
	setreq.URL = client.apiURL + "/file/bot" + client.token + "/" + filePath
	setresp, err := setreq.Send()
	if err != nil {
		return nil, err
	}

	switch setresp.StatusCode() {
	case http.StatusOK:
		return setresp.Body(), nil
	default:
		return nil, fmt.Errorf("file download status: %d", setresp.StatusCode())
	}
}

func (client client) call(ctx context.Context, method string, params map[string]string, result any) error {
	setreq := resty.New().R().SetContext(ctx).SetFormData(params)
	setreq.Method = http.MethodPost
	setreq.URL = client.apiURL + "/bot" + client.token + "/" + method
	setresp, err := setreq.Send()
	if err != nil {
		return err
	}

	var answer apiResponse
	if err := json.Unmarshal(setresp.Body(), &answer); err != nil {
		return err
	}
	if !answer.Ok {
		return fmt.Errorf("telegram %s: %s", method, answer.Description)
	}
	if result != nil {
		return json.Unmarshal(answer.Result, result)
	}
	return nil
}
