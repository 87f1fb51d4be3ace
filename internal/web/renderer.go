package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"prompt-server/internal/model"
)

// GenerateTextPath - адрес, на который отправляется форма.
const GenerateTextPath = "/generate-text"

//go:embed templates/page.html
var templatesFS embed.FS

// pageTemplate разбирается один раз при старте. html/template экранирует весь
// динамический текст, поэтому ответ модели не может внедрить разметку в страницу.
var pageTemplate = template.Must(template.ParseFS(templatesFS, "templates/page.html"))

type pageData struct {
	Action   string
	Response string
}

// Render возвращает полный HTML документ со страницей формы и текстом outcome в блоке ответа.
// Функция чистая: один и тот же outcome всегда дает одинаковый результат.
func Render(outcome model.Outcome) string {
	var buf bytes.Buffer
	data := pageData{Action: GenerateTextPath, Response: outcome.DisplayText()}
	if err := pageTemplate.ExecuteTemplate(&buf, "page.html", data); err != nil {
		// Шаблон статичный, а данные - две строки; ошибка здесь означает сломанный шаблон.
		panic(fmt.Sprintf("web: render page template: %v", err))
	}
	return buf.String()
}
