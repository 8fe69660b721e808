package ui

// Messages are the user-facing strings of the interactive flow.
type Messages struct {
	URLPrompt   string
	URLInvalid  string
	DirPrompt   string
	DirInvalid  string
	ExtraPrompt string
	Yes         string
	No          string

	RunStart    string
	RunComplete string
	Interrupted string
}

var catalog = map[string]Messages{
	"zh": {
		URLPrompt:   "请输入漫画在dmzj的主页地址（形如 https://manhua.dmzj.com/yiquanchaoren ）",
		URLInvalid:  "漫画地址必须以 https://manhua.dmzj.com/ 开头并且只有一级路径",
		DirPrompt:   "请输入漫画要保存的路径",
		DirInvalid:  "保存路径不存在，请检查后重试",
		ExtraPrompt: "当前漫画包含额外内容（可能与主要内容重复），共 %d 话，是否下载",
		Yes:         "是",
		No:          "否",
		RunStart:    "开始下载",
		RunComplete: "下载完成",
		Interrupted: "已中断",
	},
	"en": {
		URLPrompt:   "Series home page on dmzj (e.g. https://manhua.dmzj.com/yiquanchaoren)",
		URLInvalid:  "the URL must start with https://manhua.dmzj.com/ and have exactly one path segment",
		DirPrompt:   "Directory to save the series in",
		DirInvalid:  "the directory does not exist",
		ExtraPrompt: "This series has %d extra chapters (they may repeat the main ones). Download them",
		Yes:         "Yes",
		No:          "No",
		RunStart:    "download started",
		RunComplete: "download complete",
		Interrupted: "interrupted",
	},
}

// DefaultLang is used when a language is empty or unknown.
const DefaultLang = "zh"

// MessagesFor returns the catalog entry for lang.
func MessagesFor(lang string) Messages {
	if m, ok := catalog[lang]; ok {
		return m
	}
	return catalog[DefaultLang]
}

// Languages lists the supported catalog keys.
func Languages() []string {
	return []string{"zh", "en"}
}
