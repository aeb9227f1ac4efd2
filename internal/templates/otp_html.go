package templates

import (
	"bytes"
	"html/template"
)

type OtpEmailData struct {
	Logo          string
	Code          string
	ExpiryMinutes int
}

const otpHTML = `
<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8"/>
  <title>SkillSwap Verification Code</title>
  <style>
    body {
      margin: 0;
      padding: 0;
      font-family: Arial, sans-serif;
      background-color: #f5f5f5;
      color: #333;
    }
    .email-container {
      width: 100%;
      max-width: 600px;
      margin: 0 auto;
      background-color: #ffffff;
      border-radius: 6px;
      overflow: hidden;
      box-shadow: 0 2px 5px rgba(0,0,0,0.1);
    }
    .header {
      background-color: #333;
      padding: 20px;
      text-align: center;
      color: #fff;
    }
    .header img {
      width: 120px;
      height: auto;
      margin-bottom: 10px;
    }
    .header h1 {
      margin: 10px 0 0;
      font-size: 24px;
    }
    .content {
      padding: 20px;
      text-align: left;
    }
    .code-container {
      text-align: center;
      margin: 20px 0;
    }
    .otp-code {
      display: inline-block;
      padding: 12px 24px;
      background-color: #f0f0f0;
      border-radius: 4px;
      font-size: 32px;
      font-weight: bold;
      letter-spacing: 8px;
      color: #333;
    }
    .footer {
      font-size: 12px;
      color: #999;
      text-align: center;
      padding: 10px 20px;
    }
  </style>
</head>
<body>
  <table class="email-container" role="presentation" cellspacing="0" cellpadding="0">
    <tr>
      <td>
        <!-- HEADER SECTION -->
        <div class="header">
          {{if .Logo}}
            <img src="{{.Logo}}" alt="SkillSwap Logo" />
          {{end}}
          <h1>Your Verification Code</h1>
        </div>

        <!-- BODY CONTENT -->
        <div class="content">
          <p>Hello,</p>
          <p>Use the code below to verify your email address and sign in to SkillSwap.</p>

          <div class="code-container">
            <span class="otp-code">{{.Code}}</span>
          </div>

          <p>This code expires in {{.ExpiryMinutes}} minutes. If you did not request it, you can safely ignore this email.</p>
        </div>

        <!-- FOOTER SECTION -->
        <div class="footer">
          <p>&copy; 2026 SkillSwap. All rights reserved.</p>
        </div>
      </td>
    </tr>
  </table>
</body>
</html>
`

func RenderOtpHTML(data OtpEmailData) (string, error) {
	tmpl, err := template.New("otp").Parse(otpHTML)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
