// Package views は HTML テンプレートの読み込みとフラッシュメッセージ付きの描画を提供します。
package views

import (
	"embed"
	"fmt"
	"html/template"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

// フラッシュメッセージの種類
const (
	FlashSuccess  = "success_msg"
	FlashErrorMsg = "error_msg"
	FlashError    = "error"
)

var flashKinds = []string{FlashSuccess, FlashErrorMsg, FlashError}

// Templates は埋め込みテンプレートを解析して返します。
func Templates() (*template.Template, error) {
	return template.New("").ParseFS(templateFS, "templates/*.html")
}

// Load はテンプレートを gin エンジンに登録します。
func Load(engine *gin.Engine) error {
	tmpl, err := Templates()
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}
	engine.SetHTMLTemplate(tmpl)
	return nil
}

// AddFlash は次に描画されるページで一度だけ表示するメッセージを積みます。
// 保存は呼び出し側のリダイレクト前に行ってください。
func AddFlash(c *gin.Context, kind, message string) {
	sessions.Default(c).AddFlash(message, kind)
}

// Render は溜まっているフラッシュを取り出して data に載せ、テンプレートを描画します。
func Render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if _, ok := data["title"]; !ok {
		data["title"] = ""
	}

	session := sessions.Default(c)
	consumed := false
	for _, kind := range flashKinds {
		flashes := session.Flashes(kind)
		if len(flashes) > 0 {
			consumed = true
		}
		data[kind] = toStrings(flashes)
	}
	if consumed {
		// 保存に失敗してもページ自体は返す（次回も同じメッセージが出るだけ）
		_ = session.Save()
	}

	c.HTML(status, name, data)
}

func toStrings(values []interface{}) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
