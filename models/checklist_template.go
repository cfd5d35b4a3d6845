package models

// checklistTemplate é o modelo fixo de inspeção usado em toda revisão nova.
// Não deve ser alterado diretamente: NovoChecklist devolve uma cópia.
var checklistTemplate = Checklist{
	{
		ID:        "motor",
		Nome:      "Motor",
		Descricao: "Verificação do motor e componentes relacionados",
		Perguntas: []PerguntaPreDiagnostico{
			{ID: "motor_barulho", Pergunta: "O veículo apresenta barulho anormal no motor?", Tipo: PerguntaSimNao, Obrigatoria: true},
			{ID: "motor_luz_painel", Pergunta: "Alguma luz de advertência acesa no painel?", Tipo: PerguntaSimNao, Obrigatoria: true},
			{ID: "motor_sintoma", Pergunta: "Descreva qualquer sintoma percebido no motor", Tipo: PerguntaTexto},
		},
		Itens: []ItemChecklist{
			{ID: "motor_oleo", Nome: "Nível e qualidade do óleo", Obrigatorio: true, Prioridade: PrioridadeAlta},
			{ID: "motor_filtro_oleo", Nome: "Filtro de óleo", Obrigatorio: true, Prioridade: PrioridadeMedia},
			{ID: "motor_filtro_ar", Nome: "Filtro de ar", Obrigatorio: true, Prioridade: PrioridadeMedia},
			{ID: "motor_correia", Nome: "Correias (dentada e acessórios)", Obrigatorio: true, Prioridade: PrioridadeAlta},
			{ID: "motor_velas", Nome: "Velas de ignição", Prioridade: PrioridadeMedia},
			{ID: "motor_vazamentos", Nome: "Vazamentos", Obrigatorio: true, Prioridade: PrioridadeAlta},
		},
	},
	{
		ID:        "freios",
		Nome:      "Freios",
		Descricao: "Sistema de freios",
		Perguntas: []PerguntaPreDiagnostico{
			{ID: "freios_ruido", Pergunta: "Há ruído ou vibração ao frear?", Tipo: PerguntaSimNao, Obrigatoria: true},
			{ID: "freios_pedal", Pergunta: "Como está o pedal do freio?", Tipo: PerguntaMultiplaEscolha, Opcoes: []string{"normal", "baixo", "duro", "esponjoso"}},
		},
		Itens: []ItemChecklist{
			{ID: "freios_pastilhas", Nome: "Pastilhas de freio", Obrigatorio: true, Prioridade: PrioridadeCritica},
			{ID: "freios_discos", Nome: "Discos de freio", Obrigatorio: true, Prioridade: PrioridadeCritica},
			{ID: "freios_fluido", Nome: "Fluido de freio", Obrigatorio: true, Prioridade: PrioridadeAlta},
			{ID: "freios_mao", Nome: "Freio de mão", Prioridade: PrioridadeMedia},
		},
	},
	{
		ID:        "suspensao",
		Nome:      "Suspensão",
		Descricao: "Suspensão e direção",
		Itens: []ItemChecklist{
			{ID: "suspensao_amortecedores", Nome: "Amortecedores", Obrigatorio: true, Prioridade: PrioridadeAlta},
			{ID: "suspensao_buchas", Nome: "Buchas e coxins", Prioridade: PrioridadeMedia},
			{ID: "suspensao_terminais", Nome: "Terminais de direção", Obrigatorio: true, Prioridade: PrioridadeAlta},
			{ID: "suspensao_alinhamento", Nome: "Alinhamento", Prioridade: PrioridadeBaixa},
		},
	},
	{
		ID:        "eletrica",
		Nome:      "Elétrica",
		Descricao: "Sistema elétrico e iluminação",
		Itens: []ItemChecklist{
			{ID: "eletrica_bateria", Nome: "Bateria", Obrigatorio: true, Prioridade: PrioridadeAlta},
			{ID: "eletrica_farois", Nome: "Faróis e lanternas", Obrigatorio: true, Prioridade: PrioridadeMedia},
			{ID: "eletrica_alternador", Nome: "Alternador", Prioridade: PrioridadeMedia},
		},
	},
	{
		ID:        "pneus",
		Nome:      "Pneus",
		Descricao: "Pneus e rodas",
		Itens: []ItemChecklist{
			{ID: "pneus_desgaste", Nome: "Desgaste dos pneus", Obrigatorio: true, Prioridade: PrioridadeCritica},
			{ID: "pneus_calibragem", Nome: "Calibragem", Obrigatorio: true, Prioridade: PrioridadeMedia},
			{ID: "pneus_estepe", Nome: "Estepe", Prioridade: PrioridadeBaixa},
		},
	},
	{
		ID:        "fluidos",
		Nome:      "Fluidos",
		Descricao: "Fluidos e arrefecimento",
		Itens: []ItemChecklist{
			{ID: "fluidos_arrefecimento", Nome: "Líquido de arrefecimento", Obrigatorio: true, Prioridade: PrioridadeAlta},
			{ID: "fluidos_direcao", Nome: "Fluido de direção hidráulica", Prioridade: PrioridadeMedia},
			{ID: "fluidos_limpador", Nome: "Água do limpador", Prioridade: PrioridadeBaixa},
		},
	},
}

// NovoChecklist instancia o modelo fixo com todos os itens pendentes.
func NovoChecklist() Checklist {
	c := checklistTemplate.Clone()
	for i := range c {
		for j := range c[i].Itens {
			c[i].Itens[j].Categoria = c[i].Nome
			c[i].Itens[j].Status = ItemPendente
		}
	}
	return c
}
