// Package service 包含了应用的业务逻辑层。
package service

import (
	"strconv"
	"strings"

	"loanwise-go/internal/model"
)

// promptInstructions 是拼接在产品明细之后的固定指令块。
const promptInstructions = `Instructions:
You are a helpful banking assistant specialized in explaining this specific loan product.
Answer the user's question using the details above.
If the user asks about something not in the details, provide a general answer but mention you are referring to general banking principles or ask them to check with the bank.
Keep answers concise and professional.`

// BuildProductContext 将产品记录渲染为发送给生成服务的上下文文本。
// 纯函数：相同的产品快照总是产生相同的输出；product 为 nil 时返回空串，
// 生成调用只会收到用户消息本身。
func BuildProductContext(product *model.Product) string {
	if product == nil {
		return ""
	}

	processingFee := "N/A"
	if product.ProcessingFeePct != nil {
		processingFee = formatNumber(*product.ProcessingFeePct) + "%"
	}

	prepayment := "No"
	if product.PrepaymentAllowed != nil && *product.PrepaymentAllowed {
		prepayment = "Yes"
	}

	disbursalSpeed := "Standard"
	if product.DisbursalSpeed != nil && *product.DisbursalSpeed != "" {
		disbursalSpeed = *product.DisbursalSpeed
	}

	var b strings.Builder
	b.WriteString("Context Code: PRODUCT_DETAILS\n")
	b.WriteString("Product Name: " + product.Name + "\n")
	b.WriteString("Bank: " + product.Bank + "\n")
	b.WriteString("Loan Type: " + product.Type + "\n")
	b.WriteString("Interest Rate (APR): " + formatNumber(product.RateApr) + "%\n")
	b.WriteString("Minimum Income Required: " + formatNumber(product.MinIncome) + "\n")
	b.WriteString("Minimum Credit Score: " + strconv.Itoa(product.MinCreditScore) + "\n")
	b.WriteString("Processing Fee: " + processingFee + "\n")
	b.WriteString("Prepayment Allowed: " + prepayment + "\n")
	b.WriteString("Disbursal Speed: " + disbursalSpeed + "\n")
	b.WriteString("\n")
	b.WriteString(promptInstructions)
	return b.String()
}

// formatNumber 渲染数字但不带多余的尾零，如 10.5 -> "10.5"、10 -> "10"。
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
