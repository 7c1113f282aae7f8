package response

// Resp 统一响应：成功 {data, message?, meta?}；失败 {data:"", message, status}
type Resp struct {
	Data    any    `json:"data"`
	Message string `json:"message,omitempty"`
	Status  int    `json:"status,omitempty"`
	Meta    any    `json:"meta,omitempty"`
}

// OK 成功响应（保证 data 不为 null）
func OK(data any) Resp {
	if data == nil {
		data = struct{}{}
	}
	return Resp{Data: data}
}

// Message 成功 + 提示信息
func Message(data any, msg string) Resp {
	r := OK(data)
	r.Message = msg
	return r
}

// Page 列表响应，meta 为分页信息
func Page(items any, meta any) Resp {
	return Resp{Data: items, Meta: meta}
}

// Error 失败响应（可以传自定义 msg 覆盖默认）
func Error(status int, customMsg string) Resp {
	msg := CodeMsgMap[status]
	if customMsg != "" {
		msg = customMsg
	}
	return Resp{Data: "", Message: msg, Status: status}
}
